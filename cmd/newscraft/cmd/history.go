package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpjhariharan/newscraft/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived generations",
	Long: `Show recently archived generations, newest first. Requires the
history archive (history.path) to be configured.

Examples:
  newscraft history
  newscraft history --limit 20 --output json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of entries")
	historyCmd.Flags().StringVar(&historyOutput, "output", "text", "Output: text or json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg.History.Path == "" {
		return fmt.Errorf("history archive is not configured, set history.path in the config")
	}

	archive, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer archive.Close()

	entries, err := archive.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No archived generations yet.")
		return nil
	}

	if historyOutput == "json" {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("─── %s ───\n", entry.CreatedAt.Format(time.RFC1123))
		fmt.Printf("Topic:    %s (%s, %s, %s)\n", entry.Query, entry.Tone, entry.Format, entry.Platform)
		fmt.Printf("Content:  %s\n", entry.Content)
		if entry.AssetURL != "" {
			fmt.Printf("Asset:    %s\n", entry.AssetURL)
		}
		fmt.Println()
	}
	return nil
}
