package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewsAPI_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "electric vehicles" {
			t.Errorf("q = %q, want %q", got, "electric vehicles")
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("apiKey = %q, want %q", got, "test-key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"title": "EV sales surge",
					"description": "Sales are up",
					"url": "https://example.com/ev",
					"urlToImage": "https://example.com/ev.jpg",
					"content": "Electric vehicle sales surged this quarter."
				},
				{
					"title": "Battery tech",
					"url": "https://example.com/battery"
				}
			]
		}`))
	}))
	defer server.Close()

	src := NewNewsAPI("NewsAPI", "test-key", server.Client())
	src.baseURL = server.URL

	articles, err := src.Fetch(context.Background(), "electric vehicles", 5)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Fetch() returned %d articles, want 2", len(articles))
	}
	if articles[0].Title != "EV sales surge" {
		t.Errorf("Title = %q", articles[0].Title)
	}
	if articles[0].Source != "NewsAPI" {
		t.Errorf("Source = %q, want NewsAPI", articles[0].Source)
	}
	// Missing fields map to empty values, not an error.
	if articles[1].Description != "" || articles[1].Content != "" {
		t.Errorf("missing fields should decode to empty strings, got %+v", articles[1])
	}
}

func TestNewsAPI_FetchTruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[{"title":"a"},{"title":"b"},{"title":"c"}]}`))
	}))
	defer server.Close()

	src := NewNewsAPI("NewsAPI", "k", server.Client())
	src.baseURL = server.URL

	articles, err := src.Fetch(context.Background(), "ai", 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("Fetch() returned %d articles, want 2", len(articles))
	}
}

func TestNewsAPI_FetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewNewsAPI("NewsAPI", "k", server.Client())
	src.baseURL = server.URL

	if _, err := src.Fetch(context.Background(), "ai", 5); err == nil {
		t.Error("Fetch() should return an error on non-200 status")
	}
}

func TestGNews_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "gk" {
			t.Errorf("apikey = %q, want gk", got)
		}
		w.Write([]byte(`{"articles":[{"title":"t","description":"d","content":"c","url":"u","image":"i"}]}`))
	}))
	defer server.Close()

	src := NewGNews("GNews", "gk", server.Client())
	src.baseURL = server.URL

	articles, err := src.Fetch(context.Background(), "ai", 5)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("Fetch() returned %d articles, want 1", len(articles))
	}
	got := articles[0]
	if got.Title != "t" || got.Content != "c" || got.ImageURL != "i" || got.Source != "GNews" {
		t.Errorf("unexpected article %+v", got)
	}
}
