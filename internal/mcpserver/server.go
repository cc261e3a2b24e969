// Package mcpserver exposes content generation as MCP tools over
// stdio, so agent hosts can drive the pipeline directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rpjhariharan/newscraft/internal/pipeline"
	"github.com/rpjhariharan/newscraft/internal/vectorstore"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// Generator is the pipeline surface the MCP tools need.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (models.Entry, error)
	Refine(ctx context.Context, req pipeline.Request, last models.Entry, instruction string) (models.Entry, error)
	Hashtags(ctx context.Context, query, platform string) (string, error)
}

// Searcher retrieves indexed article passages.
type Searcher interface {
	Query(ctx context.Context, text string, k int) ([]vectorstore.Record, error)
}

// Config holds MCP server identification.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around the generation pipeline. The
// stdio transport serves a single caller, so the last generated entry
// is kept for refinement.
type Server struct {
	mcpServer *server.MCPServer
	gen       Generator
	store     Searcher

	mu   sync.Mutex
	last *models.Entry
}

// NewServer creates an MCP server with the generation tools registered.
func NewServer(config Config, gen Generator, store Searcher) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		gen:       gen,
		store:     store,
	}

	generateTool := mcp.NewTool("generate_post",
		mcp.WithDescription("Generate a social media post about a news topic, with citations to the source articles."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("News topic to generate content about"),
		),
		mcp.WithString("tone",
			mcp.Description("Writing tone (default: Professional)"),
		),
		mcp.WithString("platform",
			mcp.Description("Target platform (default: LinkedIn)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text, image, meme or video (default: text)"),
		),
		mcp.WithString("meme_template",
			mcp.Description("Meme template name, for the meme format"),
		),
	)
	mcpServer.AddTool(generateTool, s.generateHandler)

	hashtagsTool := mcp.NewTool("suggest_hashtags",
		mcp.WithDescription("Suggest trending hashtags for a topic and platform."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Topic to suggest hashtags for"),
		),
		mcp.WithString("platform",
			mcp.Description("Target platform (default: LinkedIn)"),
		),
	)
	mcpServer.AddTool(hashtagsTool, s.hashtagsHandler)

	refineTool := mcp.NewTool("refine_post",
		mcp.WithDescription("Refine the most recently generated post using an instruction. Keeps topic, tone, platform and citations."),
		mcp.WithString("instruction",
			mcp.Required(),
			mcp.Description("How to change the post, e.g. 'make it shorter'"),
		),
	)
	mcpServer.AddTool(refineTool, s.refineHandler)

	searchTool := mcp.NewTool("search_articles",
		mcp.WithDescription("Search previously indexed news articles by semantic similarity."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 3)"),
		),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	return s
}

// generateHandler handles the generate_post tool call.
func (s *Server) generateHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	format, err := models.ParseFormat(req.GetString("format", "text"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.gen.Generate(ctx, pipeline.Request{
		Query:        query,
		Tone:         req.GetString("tone", "Professional"),
		Platform:     req.GetString("platform", "LinkedIn"),
		Format:       format,
		MemeTemplate: req.GetString("meme_template", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	s.mu.Lock()
	s.last = &entry
	s.mu.Unlock()

	return toolResultJSON(entry)
}

// hashtagsHandler handles the suggest_hashtags tool call.
func (s *Server) hashtagsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	tags, err := s.gen.Hashtags(ctx, query, req.GetString("platform", "LinkedIn"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hashtag suggestion failed: %v", err)), nil
	}
	return mcp.NewToolResultText(tags), nil
}

// refineHandler handles the refine_post tool call.
func (s *Server) refineHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instruction, err := req.RequireString("instruction")
	if err != nil {
		return mcp.NewToolResultError("instruction parameter is required"), nil
	}

	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last == nil {
		return mcp.NewToolResultError("nothing to refine yet, call generate_post first"), nil
	}

	entry, err := s.gen.Refine(ctx, pipeline.Request{}, *last, instruction)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refinement failed: %v", err)), nil
	}

	s.mu.Lock()
	s.last = &entry
	s.mu.Unlock()

	return toolResultJSON(entry)
}

// searchHandler handles the search_articles tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", pipeline.DefaultTopK)

	records, err := s.store.Query(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return toolResultJSON(records)
}

func toolResultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
