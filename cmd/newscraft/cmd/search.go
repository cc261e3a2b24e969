package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed articles",
	Long: `Search previously indexed news articles by semantic similarity.

Examples:
  # Basic search
  newscraft search "battery breakthroughs"

  # More results
  newscraft search "fusion energy" --limit 5

  # JSON output for scripting
  newscraft search "ai regulation" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 3, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(GetConfig())
	if err != nil {
		return err
	}

	records, err := store.Query(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(records))
	for i, record := range records {
		fmt.Printf("─── Result %d ───\n", i+1)
		if title, ok := record.Metadata["title"].(string); ok && title != "" {
			fmt.Printf("Title:   %s\n", title)
		}
		if url, ok := record.Metadata["url"].(string); ok && url != "" {
			fmt.Printf("URL:     %s\n", url)
		}

		content := record.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("Content:\n%s\n\n", content)
	}

	return nil
}
