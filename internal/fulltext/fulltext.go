// Package fulltext enriches truncated article records by fetching the
// article page and converting its HTML to Markdown.
package fulltext

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gocolly/colly/v2"
	"github.com/rpjhariharan/newscraft/pkg/models"
	"golang.org/x/net/html"
)

// News APIs commonly truncate content with a marker like "[+1234 chars]".
var truncationMarker = regexp.MustCompile(`\[\+\d+ chars\]\s*$`)

// Config holds enricher configuration.
type Config struct {
	UserAgent string
}

// Enricher fetches article pages on demand.
type Enricher struct {
	userAgent string
}

// New creates an Enricher.
func New(cfg Config) *Enricher {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "newscraft/1.0"
	}
	return &Enricher{userAgent: ua}
}

// NeedsEnrichment reports whether the article content is missing or
// carries a truncation marker.
func NeedsEnrichment(a models.Article) bool {
	if a.URL == "" {
		return false
	}
	if a.Content == "" {
		return true
	}
	return truncationMarker.MatchString(a.Content)
}

// Enrich replaces truncated article content with the full page text,
// best-effort: any fetch or conversion failure leaves the article
// unchanged. Returns the enriched copy of the input slice.
func (e *Enricher) Enrich(ctx context.Context, articles []models.Article) []models.Article {
	out := make([]models.Article, len(articles))
	copy(out, articles)

	for i, a := range out {
		if !NeedsEnrichment(a) {
			continue
		}
		content, title, err := e.fetch(ctx, a.URL)
		if err != nil {
			slog.Warn("fulltext fetch failed", "url", a.URL, "error", err)
			continue
		}
		if content != "" {
			out[i].Content = content
		}
		if out[i].Title == "" && title != "" {
			out[i].Title = title
		}
	}
	return out
}

// fetch retrieves one page and returns its Markdown content and title.
func (e *Enricher) fetch(ctx context.Context, pageURL string) (content, title string, err error) {
	c := colly.NewCollector(colly.UserAgent(e.userAgent))
	c.SetRequestTimeout(30 * time.Second)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var pageHTML string
	c.OnResponse(func(r *colly.Response) {
		pageHTML = string(r.Body)
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return "", "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	c.Wait()
	if visitErr != nil {
		return "", "", fmt.Errorf("failed to fetch %s: %w", pageURL, visitErr)
	}
	if pageHTML == "" {
		return "", "", fmt.Errorf("empty response from %s", pageURL)
	}

	title = extractTitle(pageHTML)
	markdown, err := htmltomarkdown.ConvertString(pageHTML)
	if err != nil {
		return "", "", fmt.Errorf("failed to convert %s: %w", pageURL, err)
	}
	return strings.TrimSpace(markdown), title, nil
}

// extractTitle extracts the <title> content from an HTML page.
func extractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	return strings.TrimSpace(title)
}
