// Package news fetches recent articles for a topic from configured sources
// and normalizes them into a common record.
package news

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rpjhariharan/newscraft/internal/config"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// Source fetches up to limit articles matching a query.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]models.Article, error)
}

// Aggregator queries sources in registration order until the article
// limit is reached. A failing source yields zero articles and the
// aggregator moves on; an empty overall result is not an error.
type Aggregator struct {
	sources []Source
}

// NewAggregator creates an Aggregator over the given sources.
// Iteration order follows the slice order.
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// FromConfig builds an aggregator from configured source definitions.
// Unknown source kinds are skipped with a warning.
func FromConfig(cfg config.News) *Aggregator {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout == 0 {
		client.Timeout = 15 * time.Second
	}

	var sources []Source
	for _, src := range cfg.Sources {
		switch src.Kind {
		case "newsapi":
			sources = append(sources, NewNewsAPI(src.Name, src.APIKey, client))
		case "gnews":
			sources = append(sources, NewGNews(src.Name, src.APIKey, client))
		case "rss":
			sources = append(sources, NewRSS(src.Name, src.URL))
		default:
			slog.Warn("unknown news source kind", "name", src.Name, "kind", src.Kind)
		}
	}
	return NewAggregator(sources...)
}

// Fetch returns up to limit articles for the query, concatenated across
// sources in fixed order. No retries are attempted.
func (a *Aggregator) Fetch(ctx context.Context, query string, limit int) []models.Article {
	var articles []models.Article
	for _, src := range a.sources {
		if len(articles) >= limit {
			break
		}
		fetched, err := src.Fetch(ctx, query, limit-len(articles))
		if err != nil {
			slog.Warn("news source failed", "source", src.Name(), "error", err)
			continue
		}
		articles = append(articles, fetched...)
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}
