package fulltext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpjhariharan/newscraft/pkg/models"
)

func TestNeedsEnrichment(t *testing.T) {
	tests := []struct {
		name    string
		article models.Article
		want    bool
	}{
		{"empty content", models.Article{URL: "https://x", Content: ""}, true},
		{"truncated content", models.Article{URL: "https://x", Content: "Some lead text... [+2048 chars]"}, true},
		{"full content", models.Article{URL: "https://x", Content: "Complete article body."}, false},
		{"no url", models.Article{URL: "", Content: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsEnrichment(tt.article); got != tt.want {
				t.Errorf("NeedsEnrichment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnrich(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Full Story</title></head>
<body><h1>Full Story</h1><p>The complete article body with every detail.</p></body></html>`))
	}))
	defer server.Close()

	e := New(Config{})
	articles := []models.Article{
		{Title: "", URL: server.URL, Content: "lead... [+512 chars]"},
		{Title: "Untouched", URL: server.URL, Content: "Already complete."},
	}

	out := e.Enrich(context.Background(), articles)
	if len(out) != 2 {
		t.Fatalf("Enrich() returned %d articles", len(out))
	}
	if !strings.Contains(out[0].Content, "complete article body") {
		t.Errorf("content not enriched: %q", out[0].Content)
	}
	if out[0].Title != "Full Story" {
		t.Errorf("missing title not backfilled, got %q", out[0].Title)
	}
	if out[1].Content != "Already complete." {
		t.Errorf("complete article should be untouched, got %q", out[1].Content)
	}
}

func TestEnrich_FetchFailureLeavesArticleUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := New(Config{})
	articles := []models.Article{{URL: server.URL, Content: ""}}

	out := e.Enrich(context.Background(), articles)
	if out[0].Content != "" {
		t.Errorf("failed fetch should leave content unchanged, got %q", out[0].Content)
	}
}

func TestExtractTitle(t *testing.T) {
	got := extractTitle(`<html><head><title> Spaced Title </title></head><body></body></html>`)
	if got != "Spaced Title" {
		t.Errorf("extractTitle() = %q", got)
	}
	if got := extractTitle("not html at all"); got != "" {
		t.Errorf("extractTitle() on plain text = %q, want empty", got)
	}
}
