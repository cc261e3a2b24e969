package vectorstore

import "fmt"

// SanitizeMetadata restricts metadata values to primitive scalar types.
// Strings, numbers and booleans pass through, nil becomes the empty
// string, and anything else is converted to its string representation.
func SanitizeMetadata(metadata map[string]any) map[string]any {
	sanitized := make(map[string]any, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case nil:
			sanitized[key] = ""
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			sanitized[key] = v
		default:
			sanitized[key] = fmt.Sprint(v)
		}
	}
	return sanitized
}
