package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpjhariharan/newscraft/internal/pipeline"
	"github.com/rpjhariharan/newscraft/pkg/models"
	"github.com/spf13/cobra"
)

var (
	generateTone     string
	generatePlatform string
	generateFormat   string
	generateTemplate string
	generateOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a social media post about a topic",
	Long: `Generate a social media post about a news topic.

Fetches recent articles, indexes them, retrieves the most relevant
passages and asks the model to write the post. When no articles are
available the post is synthesized from the topic alone.

Examples:
  # Text post for LinkedIn
  newscraft generate "clean energy"

  # Witty post for X
  newscraft generate "ai regulation" --tone Witty --platform "X (formerly Twitter)"

  # Meme with a specific template
  newscraft generate "electric cars" --format meme --template "Drake Hotline Bling"

  # JSON output for scripting
  newscraft generate "space launches" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateTone, "tone", "Professional", "Writing tone")
	generateCmd.Flags().StringVar(&generatePlatform, "platform", "LinkedIn", "Target platform")
	generateCmd.Flags().StringVar(&generateFormat, "format", "text", "Output format: text, image, meme or video")
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "Meme template name (for --format meme)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "text", "Output: text or json")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, err := models.ParseFormat(generateFormat)
	if err != nil {
		return err
	}

	p, _, cleanup, err := buildPipeline(GetConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	entry, err := p.Generate(ctx, pipeline.Request{
		Query:        args[0],
		Tone:         generateTone,
		Platform:     generatePlatform,
		Format:       format,
		MemeTemplate: generateTemplate,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return printEntry(entry, generateOutput)
}

func printEntry(entry models.Entry, output string) error {
	if output == "json" {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(entry.Content)
	if entry.AssetURL != "" {
		fmt.Printf("\nAsset: %s\n", entry.AssetURL)
	}
	if len(entry.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range entry.Citations {
			if c.Title != "" {
				fmt.Printf("  - %s (%s)\n", c.Title, c.URL)
			} else {
				fmt.Printf("  - %s\n", c.URL)
			}
		}
	}
	return nil
}
