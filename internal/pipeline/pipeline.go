// Package pipeline orchestrates the news-to-content flow: fetch
// articles, index them in the vector store, retrieve the most relevant
// passages and synthesize a social media post with citations.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpjhariharan/newscraft/internal/events"
	"github.com/rpjhariharan/newscraft/internal/media"
	"github.com/rpjhariharan/newscraft/internal/vectorstore"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// Aggregator fetches news articles for a topic.
type Aggregator interface {
	Fetch(ctx context.Context, query string, limit int) []models.Article
}

// Enricher upgrades truncated article content, best-effort.
type Enricher interface {
	Enrich(ctx context.Context, articles []models.Article) []models.Article
}

// VectorStore indexes articles and retrieves nearest passages.
type VectorStore interface {
	Upsert(ctx context.Context, articles []models.Article) (int, error)
	Query(ctx context.Context, text string, k int) ([]vectorstore.Record, error)
}

// Synthesizer produces post text. Every operation returns a usable
// value even on failure; the error is informational.
type Synthesizer interface {
	SummarizeAndRewrite(ctx context.Context, text, tone, platform string) (string, error)
	FallbackContent(ctx context.Context, query, tone, platform string) (string, error)
	SuggestHashtags(ctx context.Context, query, platform string) (string, error)
	Refine(ctx context.Context, instruction, original string) (string, error)
}

// Renderer maps finalized text to media asset URLs.
type Renderer interface {
	Image(ctx context.Context, prompt string) string
	Meme(ctx context.Context, templateID, caption string) string
	Video(ctx context.Context, script string) string
}

// Archiver persists generation entries beyond the session.
type Archiver interface {
	Append(username string, entry models.Entry) error
}

// EventPublisher emits generation events for downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.GenerationEvent) error
}

// AssetArchiver stores a copy of a generated media asset.
type AssetArchiver interface {
	ArchiveURL(ctx context.Context, prefix, assetURL string) (string, error)
}

// Defaults for the retrieval flow.
const (
	DefaultFetchLimit = 5
	DefaultTopK       = 3
)

// Pipeline wires the components together. Optional collaborators may
// be nil.
type Pipeline struct {
	news     Aggregator
	enricher Enricher
	store    VectorStore
	synth    Synthesizer
	renderer Renderer

	archive   Archiver
	publisher EventPublisher
	assets    AssetArchiver

	fetchLimit int
	topK       int
	now        func() time.Time
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithEnricher enables full-text content enrichment.
func WithEnricher(e Enricher) Option { return func(p *Pipeline) { p.enricher = e } }

// WithArchive enables the persistent generation archive.
func WithArchive(a Archiver) Option { return func(p *Pipeline) { p.archive = a } }

// WithPublisher enables generation event publishing.
func WithPublisher(pub EventPublisher) Option { return func(p *Pipeline) { p.publisher = pub } }

// WithAssetArchiver enables media asset archival.
func WithAssetArchiver(a AssetArchiver) Option { return func(p *Pipeline) { p.assets = a } }

// New creates a Pipeline over the required collaborators.
func New(news Aggregator, store VectorStore, synth Synthesizer, renderer Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		news:       news,
		store:      store,
		synth:      synth,
		renderer:   renderer,
		fetchLimit: DefaultFetchLimit,
		topK:       DefaultTopK,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request describes one generation.
type Request struct {
	Username     string
	Query        string
	Tone         string
	Format       models.Format
	Platform     string
	MemeTemplate string // template display name; defaults to Distracted Boyfriend
}

// Validate checks the request fields against the accepted sets.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if !models.ValidTone(r.Tone) {
		return fmt.Errorf("unknown tone %q", r.Tone)
	}
	if !models.ValidPlatform(r.Platform) {
		return fmt.Errorf("unknown platform %q", r.Platform)
	}
	if _, err := models.ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if r.Format == models.FormatMeme && r.MemeTemplate != "" {
		if _, ok := media.MemeTemplates[r.MemeTemplate]; !ok {
			return fmt.Errorf("unknown meme template %q", r.MemeTemplate)
		}
	}
	return nil
}

// Generate runs the full retrieval-augmented flow for one request.
// When no articles are fetched, or nothing relevant is retrieved, the
// post is synthesized from the topic alone and carries no citations.
func (p *Pipeline) Generate(ctx context.Context, req Request) (models.Entry, error) {
	if err := req.Validate(); err != nil {
		return models.Entry{}, err
	}

	articles := p.news.Fetch(ctx, req.Query, p.fetchLimit)
	if p.enricher != nil {
		articles = p.enricher.Enrich(ctx, articles)
	}
	if len(articles) == 0 {
		slog.Info("no articles found, generating fallback content", "query", req.Query)
		return p.fallback(ctx, req)
	}

	added, err := p.store.Upsert(ctx, articles)
	if err != nil {
		slog.Warn("failed to index articles", "error", err)
	} else {
		slog.Debug("articles indexed", "fetched", len(articles), "indexed", added)
	}

	records, err := p.store.Query(ctx, req.Query, p.topK)
	if err != nil {
		slog.Warn("retrieval failed", "error", err)
	}
	if len(records) == 0 {
		slog.Info("no relevant articles retrieved, generating fallback content", "query", req.Query)
		return p.fallback(ctx, req)
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Content
	}
	combined := strings.Join(texts, " ")

	content, err := p.synth.SummarizeAndRewrite(ctx, combined, req.Tone, req.Platform)
	if err != nil {
		slog.Warn("model unavailable, using retrieved text as-is", "error", err)
	}

	entry := p.finish(ctx, req, content, vectorstore.Citations(records))
	return entry, nil
}

// fallback synthesizes a post from the topic alone.
func (p *Pipeline) fallback(ctx context.Context, req Request) (models.Entry, error) {
	content, err := p.synth.FallbackContent(ctx, req.Query, req.Tone, req.Platform)
	if err != nil {
		slog.Warn("model unavailable, using templated fallback", "error", err)
	}
	return p.finish(ctx, req, content, nil), nil
}

// Refine applies a user instruction to the given entry, producing a new
// entry that preserves everything but the content.
func (p *Pipeline) Refine(ctx context.Context, req Request, last models.Entry, instruction string) (models.Entry, error) {
	if strings.TrimSpace(instruction) == "" {
		return models.Entry{}, fmt.Errorf("refinement instruction is required")
	}

	content, err := p.synth.Refine(ctx, instruction, last.Content)
	if err != nil {
		slog.Warn("model unavailable, keeping original content", "error", err)
	}

	entry := last.Refined(content, p.now())
	entry.AssetURL = p.render(ctx, Request{
		Username:     req.Username,
		Query:        last.Query,
		Tone:         last.Tone,
		Format:       last.Format,
		Platform:     last.Platform,
		MemeTemplate: req.MemeTemplate,
	}, content)
	p.afterGeneration(ctx, req.Username, entry)
	return entry, nil
}

// Hashtags suggests hashtags for a topic and platform.
func (p *Pipeline) Hashtags(ctx context.Context, query, platform string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query is required")
	}
	tags, err := p.synth.SuggestHashtags(ctx, query, platform)
	if err != nil {
		slog.Warn("model unavailable, using default hashtags", "error", err)
	}
	return tags, nil
}

// finish builds the entry, renders media and fires post-generation
// hooks.
func (p *Pipeline) finish(ctx context.Context, req Request, content string, citations []models.Citation) models.Entry {
	entry := models.Entry{
		ID:        models.NewEntryID(),
		Query:     req.Query,
		Tone:      req.Tone,
		Format:    req.Format,
		Platform:  req.Platform,
		Content:   content,
		Citations: citations,
		CreatedAt: p.now(),
	}
	entry.AssetURL = p.render(ctx, req, content)
	p.afterGeneration(ctx, req.Username, entry)
	return entry
}

// render maps the finalized text to an asset URL for non-text formats.
func (p *Pipeline) render(ctx context.Context, req Request, content string) string {
	switch req.Format {
	case models.FormatImage:
		return p.renderer.Image(ctx, media.RenderPrompt(req.Tone, content))
	case models.FormatMeme:
		template := req.MemeTemplate
		if template == "" {
			template = "Distracted Boyfriend"
		}
		return p.renderer.Meme(ctx, media.MemeTemplates[template], media.MemeCaption(req.Tone, req.Query))
	case models.FormatVideo:
		return p.renderer.Video(ctx, content)
	default:
		return ""
	}
}

// afterGeneration fires the optional archive, event and asset hooks.
// Each failure is a warning only.
func (p *Pipeline) afterGeneration(ctx context.Context, username string, entry models.Entry) {
	if p.archive != nil {
		if err := p.archive.Append(username, entry); err != nil {
			slog.Warn("failed to archive entry", "error", err)
		}
	}
	if p.publisher != nil {
		event := events.GenerationEvent{
			Username:  username,
			Query:     entry.Query,
			Tone:      entry.Tone,
			Format:    string(entry.Format),
			Platform:  entry.Platform,
			Cited:     len(entry.Citations),
			CreatedAt: entry.CreatedAt,
		}
		if err := p.publisher.Publish(ctx, event); err != nil {
			slog.Warn("failed to publish generation event", "error", err)
		}
	}
	if p.assets != nil && entry.AssetURL != "" {
		key, err := p.assets.ArchiveURL(ctx, "generations/"+entry.ID, entry.AssetURL)
		if err != nil {
			slog.Warn("failed to archive asset", "error", err)
		} else {
			slog.Debug("asset archived", "key", key)
		}
	}
}
