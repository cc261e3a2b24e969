package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"empty base URL", Config{BaseURL: "", Model: "gpt-4"}, true},
		{"empty model", Config{BaseURL: "http://localhost", Model: ""}, true},
		{"valid", Config{BaseURL: "http://localhost", Model: "gpt-4"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("got %d messages, want system + user", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("roles = %q, %q", req.Messages[0].Role, req.Messages[1].Role)
		}
		if req.MaxTokens != 300 {
			t.Errorf("max_tokens = %d, want 300", req.MaxTokens)
		}
		if req.Temperature != 0.7 {
			t.Errorf("temperature = %v, want 0.7", req.Temperature)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"  hello world \n"}}]}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Model: "gpt-4"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := client.Complete(context.Background(), "You are helpful.", "Say hello.", 300, 0.7)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "hello world" {
		t.Errorf("Complete() = %q, want trimmed %q", got, "hello world")
	}
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"api error payload", http.StatusOK, `{"error":{"message":"model overloaded"}}`},
		{"empty choices", http.StatusOK, `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL, Model: "gpt-4"})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, err := client.Complete(context.Background(), "sys", "hi", 0, 0); err == nil {
				t.Error("Complete() should return an error")
			}
		})
	}
}
