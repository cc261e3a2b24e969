package cmd

import (
	"fmt"
	"log/slog"

	"github.com/rpjhariharan/newscraft/internal/config"
	"github.com/rpjhariharan/newscraft/internal/embeddings"
	"github.com/rpjhariharan/newscraft/internal/events"
	"github.com/rpjhariharan/newscraft/internal/fulltext"
	"github.com/rpjhariharan/newscraft/internal/history"
	"github.com/rpjhariharan/newscraft/internal/llm"
	"github.com/rpjhariharan/newscraft/internal/media"
	"github.com/rpjhariharan/newscraft/internal/news"
	"github.com/rpjhariharan/newscraft/internal/pipeline"
	"github.com/rpjhariharan/newscraft/internal/storage"
	"github.com/rpjhariharan/newscraft/internal/synthesis"
	"github.com/rpjhariharan/newscraft/internal/vectorstore"
)

// buildStore creates the vector store over the configured Elasticsearch
// cluster and embeddings client.
func buildStore(cfg config.Config) (*vectorstore.Store, error) {
	embedder, err := embeddings.New(embeddings.Config{
		BaseURL: cfg.Embeddings.BaseURL,
		APIKey:  cfg.Embeddings.APIKey,
		Model:   cfg.Embeddings.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	store, err := vectorstore.New(vectorstore.Config{
		Addresses:  cfg.Elasticsearch.Addresses,
		Index:      cfg.Elasticsearch.Index,
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		Dimensions: embeddings.Dimensions(cfg.Embeddings.Model),
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	return store, nil
}

// buildPipeline wires the full generation pipeline from configuration.
// The returned cleanup releases the optional archive and publisher.
func buildPipeline(cfg config.Config) (*pipeline.Pipeline, *vectorstore.Store, func(), error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	llmClient, err := llm.New(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	renderer := media.New(media.Config{
		ImageAPIKey:     cfg.Media.ImageAPIKey,
		ImgflipUsername: cfg.Media.ImgflipUsername,
		ImgflipPassword: cfg.Media.ImgflipPassword,
		VideoAPIKey:     cfg.Media.VideoAPIKey,
	})

	var opts []pipeline.Option

	if cfg.Fulltext.Enabled {
		opts = append(opts, pipeline.WithEnricher(fulltext.New(fulltext.Config{
			UserAgent: cfg.Fulltext.UserAgent,
		})))
	}

	var closers []func()
	if cfg.History.Path != "" {
		archive, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("failed to open history archive", "error", err)
		} else {
			opts = append(opts, pipeline.WithArchive(archive))
			closers = append(closers, func() { archive.Close() })
		}
	}

	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		if err != nil {
			slog.Warn("failed to create event publisher", "error", err)
		} else {
			opts = append(opts, pipeline.WithPublisher(publisher))
			closers = append(closers, func() { publisher.Close() })
		}
	}

	if cfg.Storage.Enabled {
		assets, err := storage.New(storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		})
		if err != nil {
			slog.Warn("failed to create asset storage client", "error", err)
		} else {
			opts = append(opts, pipeline.WithAssetArchiver(assets))
		}
	}

	cleanup := func() {
		for _, close := range closers {
			close()
		}
	}

	p := pipeline.New(news.FromConfig(cfg.News), store, synthesis.New(llmClient), renderer, opts...)
	return p, store, cleanup, nil
}
