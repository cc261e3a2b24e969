package cmd

import (
	"fmt"

	"github.com/rpjhariharan/newscraft/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the MCP server over stdio.

Tools:
  generate_post     Generate a social media post about a topic
  refine_post       Refine the most recently generated post
  suggest_hashtags  Suggest hashtags for a topic
  search_articles   Search indexed articles by semantic similarity

Example:
  newscraft mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	p, store, cleanup, err := buildPipeline(GetConfig())
	if err != nil {
		return err
	}
	defer cleanup()

	server := mcpserver.NewServer(mcpserver.Config{
		Name:    "newscraft",
		Version: "1.0.0",
	}, p, store)

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}
