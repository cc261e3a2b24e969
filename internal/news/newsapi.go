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

const newsAPIURL = "https://newsapi.org/v2/everything"

// NewsAPI fetches articles from newsapi.org.
type NewsAPI struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewNewsAPI creates a NewsAPI source. A nil client falls back to
// http.DefaultClient.
func NewNewsAPI(name, apiKey string, client *http.Client) *NewsAPI {
	if name == "" {
		name = "NewsAPI"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NewsAPI{name: name, apiKey: apiKey, baseURL: newsAPIURL, httpClient: client}
}

// Name returns the configured source name.
func (s *NewsAPI) Name() string { return s.name }

// newsAPIResponse mirrors the /v2/everything response shape. Missing
// fields decode to empty strings.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Fetch issues one GET to the everything endpoint. A non-200 status or
// transport error is returned to the caller; no retry.
func (s *NewsAPI) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", s.apiKey)

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

	var body newsAPIResponse
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
			ImageURL:    a.URLToImage,
			Source:      s.name,
		})
	}
	return articles, nil
}
