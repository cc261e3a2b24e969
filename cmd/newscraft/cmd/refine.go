package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpjhariharan/newscraft/internal/history"
	"github.com/rpjhariharan/newscraft/internal/pipeline"
	"github.com/spf13/cobra"
)

var refineOutput string

var refineCmd = &cobra.Command{
	Use:   "refine [instruction]",
	Short: "Refine the most recent generated post",
	Long: `Refine the most recently archived post using an instruction.
The topic, tone, platform and citations stay the same; only the content
changes. Requires the history archive (history.path) to be configured.

Examples:
  newscraft refine "make it shorter"
  newscraft refine "add a question at the end" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	rootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringVar(&refineOutput, "output", "text", "Output: text or json")
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if cfg.History.Path == "" {
		return fmt.Errorf("refine needs the history archive, set history.path in the config")
	}

	archive, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer archive.Close()

	entries, err := archive.Recent(1)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("nothing to refine yet, generate a post first")
	}

	p, _, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	entry, err := p.Refine(ctx, pipeline.Request{}, entries[0], args[0])
	if err != nil {
		return fmt.Errorf("refinement failed: %w", err)
	}

	return printEntry(entry, refineOutput)
}
