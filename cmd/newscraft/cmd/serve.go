package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpjhariharan/newscraft/internal/httpapi"
	"github.com/rpjhariharan/newscraft/internal/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

Endpoints:
  POST /register   Create an account
  POST /login      Get a bearer token
  POST /logout     Clear the session state (authenticated)
  POST /generate   Generate a post (authenticated, rate limited)
  POST /refine     Refine your last post (authenticated, rate limited)
  GET  /hashtags   Suggest hashtags (authenticated)
  GET  /history    Your generation history (authenticated)
  GET  /options    Accepted tones, platforms, formats and meme templates
  GET  /health     Liveness check

Example:
  NEWSCRAFT_SERVER_JWT_SECRET=change-me newscraft serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	p, store, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure index: %w", err)
	}

	server, err := httpapi.New(p, session.New(), cfg.Server.JWTSecret)
	if err != nil {
		return err
	}

	return server.Run(ctx, cfg.Server.BindAddr)
}
