package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpjhariharan/newscraft/internal/llm"
	"github.com/rpjhariharan/newscraft/internal/synthesis"
	"github.com/spf13/cobra"
)

var hashtagsPlatform string

var hashtagsCmd = &cobra.Command{
	Use:   "hashtags [topic]",
	Short: "Suggest hashtags for a topic",
	Long: `Suggest trending hashtags for a topic and platform.

Example:
  newscraft hashtags "clean energy" --platform Instagram`,
	Args: cobra.ExactArgs(1),
	RunE: runHashtags,
}

func init() {
	rootCmd.AddCommand(hashtagsCmd)

	hashtagsCmd.Flags().StringVar(&hashtagsPlatform, "platform", "LinkedIn", "Target platform")
}

func runHashtags(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	llmClient, err := llm.New(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	tags, err := synthesis.New(llmClient).SuggestHashtags(ctx, args[0], hashtagsPlatform)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, showing defaults\n", err)
	}
	fmt.Println(tags)
	return nil
}
