package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpjhariharan/newscraft/pkg/models"
)

func TestSanitizeMetadata(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  any
	}{
		{"string passes through", "title", "EV news", "EV news"},
		{"int passes through", "count", 3, 3},
		{"float passes through", "score", 0.5, 0.5},
		{"bool passes through", "breaking", true, true},
		{"nil becomes empty string", "image", nil, ""},
		{"slice is stringified", "tags", []string{"a", "b"}, "[a b]"},
		{"map is stringified", "extra", map[string]int{"x": 1}, "map[x:1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeMetadata(map[string]any{tt.key: tt.value})
			if got[tt.key] != tt.want {
				t.Errorf("SanitizeMetadata()[%q] = %#v, want %#v", tt.key, got[tt.key], tt.want)
			}
		})
	}
}

func TestCitations(t *testing.T) {
	records := []Record{
		{Metadata: map[string]any{"title": "EV record", "url": "https://example.com/ev", "source": "NewsAPI"}},
		{Metadata: map[string]any{"title": "", "url": ""}},
		{Metadata: map[string]any{"url": "https://example.com/no-title"}},
	}

	citations := Citations(records)
	if len(citations) != 2 {
		t.Fatalf("Citations() returned %d, want 2 (untitled empty record skipped)", len(citations))
	}
	if citations[0].Title != "EV record" || citations[0].Source != "NewsAPI" {
		t.Errorf("unexpected first citation %+v", citations[0])
	}
}

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// newMockES serves just enough of the ES API for the store: index
// existence checks, document writes, refresh and search.
func newMockES(t *testing.T, searchBody string, indexed *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case strings.Contains(r.URL.Path, "/_doc/"):
			parts := strings.Split(r.URL.Path, "/_doc/")
			*indexed = append(*indexed, parts[1])
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"result":"created"}`)
		case strings.HasSuffix(r.URL.Path, "/_refresh"):
			fmt.Fprint(w, `{}`)
		case strings.HasSuffix(r.URL.Path, "/_search"):
			fmt.Fprint(w, searchBody)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
}

func newTestStore(t *testing.T, url string, embedder Embedder) *Store {
	t.Helper()
	store, err := New(Config{
		Addresses: []string{url},
		Index:     "newscraft-test",
	}, embedder)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	return store
}

func TestUpsert_SkipsEmptyContent(t *testing.T) {
	var indexed []string
	server := newMockES(t, `{"hits":{"hits":[]}}`, &indexed)
	defer server.Close()

	store := newTestStore(t, server.URL, &stubEmbedder{})

	articles := []models.Article{
		{Title: "a", Content: "first body"},
		{Title: "b", Content: ""},
		{Title: "c", Content: "third body"},
	}

	added, err := store.Upsert(context.Background(), articles)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if added != 2 {
		t.Errorf("Upsert() added %d records, want 2 (empty content skipped)", added)
	}
	if len(indexed) != 2 {
		t.Fatalf("indexed %d documents, want 2", len(indexed))
	}
	// Ids combine ordinal and ingestion timestamp.
	if indexed[0] != "doc_0_1700000000" || indexed[1] != "doc_1_1700000000" {
		t.Errorf("unexpected ids %v", indexed)
	}
}

func TestUpsert_EmbeddingFailureAddsNothing(t *testing.T) {
	var indexed []string
	server := newMockES(t, `{"hits":{"hits":[]}}`, &indexed)
	defer server.Close()

	store := newTestStore(t, server.URL, &stubEmbedder{err: errors.New("quota exceeded")})

	added, err := store.Upsert(context.Background(), []models.Article{{Content: "body"}})
	if err == nil {
		t.Error("Upsert() should report the embedding failure")
	}
	if added != 0 || len(indexed) != 0 {
		t.Errorf("added %d, indexed %d; no records should be stored", added, len(indexed))
	}
}

func TestUpsert_AllEmptyIsNoop(t *testing.T) {
	var indexed []string
	server := newMockES(t, `{"hits":{"hits":[]}}`, &indexed)
	defer server.Close()

	embedder := &stubEmbedder{}
	store := newTestStore(t, server.URL, embedder)

	added, err := store.Upsert(context.Background(), []models.Article{{Title: "a"}, {Title: "b"}})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for empty input", embedder.calls)
	}
}

func TestQuery_ReturnsRecords(t *testing.T) {
	hit := Record{
		Content:  "Electric vehicle sales surged.",
		Metadata: map[string]any{"title": "EV surge", "url": "https://example.com/ev"},
	}
	hitJSON, _ := json.Marshal(hit)
	body := fmt.Sprintf(`{"hits":{"hits":[{"_source":%s}]}}`, hitJSON)

	var indexed []string
	server := newMockES(t, body, &indexed)
	defer server.Close()

	store := newTestStore(t, server.URL, &stubEmbedder{})

	records, err := store.Query(context.Background(), "electric vehicles", 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Query() returned %d records, want 1", len(records))
	}
	if records[0].Content != hit.Content {
		t.Errorf("Content = %q", records[0].Content)
	}
	if title, _ := records[0].Metadata["title"].(string); title != "EV surge" {
		t.Errorf("metadata title = %q", title)
	}
}

func TestQuery_EmbeddingFailureYieldsEmpty(t *testing.T) {
	var indexed []string
	server := newMockES(t, `{"hits":{"hits":[]}}`, &indexed)
	defer server.Close()

	store := newTestStore(t, server.URL, &stubEmbedder{err: errors.New("unreachable")})

	records, err := store.Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Query() error = %v, embedding failure should not be an error", err)
	}
	if len(records) != 0 {
		t.Errorf("Query() returned %d records, want 0", len(records))
	}
}
