// Package vectorstore persists article text with embeddings in
// Elasticsearch and retrieves nearest neighbours by cosine similarity.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// Embedder produces fixed-dimension vectors for texts.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds vector store configuration.
type Config struct {
	Addresses  []string
	Index      string
	Username   string
	Password   string
	Dimensions int
}

// Store wraps the Elasticsearch client with retrieval operations.
type Store struct {
	es       *elasticsearch.Client
	embedder Embedder
	index    string
	dims     int
	now      func() time.Time
}

// Record is one stored document: article text plus sanitized metadata.
type Record struct {
	Content    string         `json:"content"`
	Embedding  []float32      `json:"embedding,omitempty"`
	Metadata   map[string]any `json:"metadata"`
	IngestedAt time.Time      `json:"ingested_at"`
}

// New creates a Store backed by Elasticsearch.
func New(config Config, embedder Embedder) (*Store, error) {
	if config.Index == "" {
		return nil, fmt.Errorf("index is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	dims := config.Dimensions
	if dims == 0 {
		dims = 1536
	}

	return &Store{
		es:       es,
		embedder: embedder,
		index:    config.Index,
		dims:     dims,
		now:      time.Now,
	}, nil
}

// Ping checks if Elasticsearch is available.
func (s *Store) Ping(ctx context.Context) bool {
	res, err := s.es.Ping(s.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

func (s *Store) indexMapping() string {
	return fmt.Sprintf(`{
	"mappings": {
		"properties": {
			"content": { "type": "text", "analyzer": "english" },
			"embedding": {
				"type": "dense_vector",
				"dims": %d,
				"index": true,
				"similarity": "cosine"
			},
			"metadata": {
				"properties": {
					"title": { "type": "text" },
					"url": { "type": "keyword" },
					"source": { "type": "keyword" }
				}
			},
			"ingested_at": { "type": "date" }
		}
	}
}`, s.dims)
}

// EnsureIndex creates the index with the vector mapping if missing.
func (s *Store) EnsureIndex(ctx context.Context) error {
	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = s.es.Indices.Create(
		s.index,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(bytes.NewReader([]byte(s.indexMapping()))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (s *Store) DeleteIndex(ctx context.Context) error {
	res, err := s.es.Indices.Delete([]string{s.index}, s.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// Refresh forces an index refresh so new records become searchable.
func (s *Store) Refresh(ctx context.Context) error {
	res, err := s.es.Indices.Refresh(
		s.es.Indices.Refresh.WithContext(ctx),
		s.es.Indices.Refresh.WithIndex(s.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// articleMetadata flattens an article into a metadata map, mirroring
// the record shape a source adapter produced.
func articleMetadata(a models.Article) map[string]any {
	return map[string]any{
		"title":       a.Title,
		"description": a.Description,
		"url":         a.URL,
		"image_url":   a.ImageURL,
		"source":      a.Source,
	}
}

// Upsert embeds article content and adds one record per article with
// non-empty content. Ids combine the ordinal with the ingestion
// timestamp so repeated queries never collide; no dedup is attempted
// against existing records. Returns the number of records added.
func (s *Store) Upsert(ctx context.Context, articles []models.Article) (int, error) {
	var texts []string
	var kept []models.Article
	for _, a := range articles {
		if a.Content == "" {
			continue
		}
		texts = append(texts, a.Content)
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		return 0, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed articles: %w", err)
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	ingested := s.now()
	added := 0
	for i, a := range kept {
		record := Record{
			Content:    a.Content,
			Embedding:  vectors[i],
			Metadata:   SanitizeMetadata(articleMetadata(a)),
			IngestedAt: ingested,
		}
		id := fmt.Sprintf("doc_%d_%d", i, ingested.Unix())
		if err := s.indexRecord(ctx, id, record); err != nil {
			slog.Warn("failed to index record", "id", id, "error", err)
			continue
		}
		added++
	}

	s.Refresh(ctx)
	return added, nil
}

func (s *Store) indexRecord(ctx context.Context, id string, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(data),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("failed to index record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing record (status %d): %s", res.StatusCode, res.String())
	}
	return nil
}

// searchResponse represents the ES search response structure.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Record `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query embeds the text and returns the top-k nearest records by
// cosine similarity. A failed query embedding or a missing index
// yields empty results rather than an error.
func (s *Store) Query(ctx context.Context, text string, k int) ([]Record, error) {
	queryEmbedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		slog.Warn("failed to embed query", "error", err)
		return nil, nil
	}

	searchQuery := map[string]any{
		"knn": map[string]any{
			"field":          "embedding",
			"query_vector":   queryEmbedding,
			"k":              k,
			"num_candidates": k * 2,
		},
		"size": k,
	}

	data, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		// Nothing has been indexed yet.
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]Record, len(sr.Hits.Hits))
	for i, hit := range sr.Hits.Hits {
		records[i] = hit.Source
	}
	return records, nil
}

// Citations extracts citation metadata from retrieved records.
func Citations(records []Record) []models.Citation {
	var citations []models.Citation
	for _, r := range records {
		title, _ := r.Metadata["title"].(string)
		url, _ := r.Metadata["url"].(string)
		source, _ := r.Metadata["source"].(string)
		if title == "" && url == "" {
			continue
		}
		citations = append(citations, models.Citation{Title: title, URL: url, Source: source})
	}
	return citations
}
