package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpjhariharan/newscraft/internal/fulltext"
	"github.com/rpjhariharan/newscraft/internal/news"
	"github.com/spf13/cobra"
)

var (
	fetchLimit    int
	fetchFulltext bool
	fetchOutput   string
	fetchIndex    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [topic]",
	Short: "Fetch news articles for a topic",
	Long: `Fetch news articles for a topic from the configured sources.

Examples:
  # Show headlines
  newscraft fetch "clean energy"

  # Fetch, enrich truncated content and index into Elasticsearch
  newscraft fetch "clean energy" --fulltext --index

  # JSON output
  newscraft fetch "ai regulation" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Maximum number of articles (default from config)")
	fetchCmd.Flags().BoolVar(&fetchFulltext, "fulltext", false, "Fetch full article pages for truncated content")
	fetchCmd.Flags().BoolVar(&fetchIndex, "index", false, "Index fetched articles into Elasticsearch")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "text", "Output: text or json")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	limit := fetchLimit
	if limit <= 0 {
		limit = cfg.News.Limit
	}

	aggregator := news.FromConfig(cfg.News)
	articles := aggregator.Fetch(ctx, args[0], limit)
	if len(articles) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	if fetchFulltext {
		enricher := fulltext.New(fulltext.Config{UserAgent: cfg.Fulltext.UserAgent})
		articles = enricher.Enrich(ctx, articles)
	}

	if fetchIndex {
		store, err := buildStore(cfg)
		if err != nil {
			return err
		}
		if err := store.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("failed to ensure index: %w", err)
		}
		added, err := store.Upsert(ctx, articles)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		fmt.Printf("Indexed %d of %d articles.\n\n", added, len(articles))
	}

	if fetchOutput == "json" {
		data, err := json.MarshalIndent(articles, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for i, a := range articles {
		fmt.Printf("─── Article %d ───\n", i+1)
		fmt.Printf("Title:   %s\n", a.Title)
		fmt.Printf("Source:  %s\n", a.Source)
		fmt.Printf("URL:     %s\n", a.URL)
		if a.Description != "" {
			fmt.Printf("Summary: %s\n", a.Description)
		}
		fmt.Println()
	}
	return nil
}
