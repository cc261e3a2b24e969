package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rpjhariharan/newscraft/pkg/models"
)

const gnewsURL = "https://gnews.io/api/v4/search"

// GNews fetches articles from gnews.io.
type GNews struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGNews creates a GNews source.
func NewGNews(name, apiKey string, client *http.Client) *GNews {
	if name == "" {
		name = "GNews"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GNews{name: name, apiKey: apiKey, baseURL: gnewsURL, httpClient: client}
}

// Name returns the configured source name.
func (s *GNews) Name() string { return s.name }

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Image       string `json:"image"`
	} `json:"articles"`
}

// Fetch issues one GET to the search endpoint.
func (s *GNews) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(limit))
	params.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]models.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		if len(articles) >= limit {
			break
		}
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Content:     a.Content,
			ImageURL:    a.Image,
			Source:      s.name,
		})
	}
	return articles, nil
}
