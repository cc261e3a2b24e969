package news

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// RSS fetches a feed and filters items against the query. Feeds carry
// no server-side search, so matching happens on title and description.
type RSS struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

// NewRSS creates an RSS source for the given feed URL.
func NewRSS(name, feedURL string) *RSS {
	return &RSS{name: name, feedURL: feedURL, parser: gofeed.NewParser()}
}

// Name returns the configured source name.
func (s *RSS) Name() string { return s.name }

// Fetch parses the feed and keeps items whose title or description
// contains any term of the query, case-insensitively.
func (s *RSS) Fetch(ctx context.Context, query string, limit int) ([]models.Article, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	articles := make([]models.Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if !matches(item, terms) {
			continue
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		var image string
		if item.Image != nil {
			image = item.Image.URL
		}
		articles = append(articles, models.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Content:     content,
			ImageURL:    image,
			Source:      s.name,
		})
	}
	return articles, nil
}

func matches(item *gofeed.Item, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
