package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the article index",
}

var indexCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the article index if it does not exist",
	RunE:  runIndexCreate,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the article index and all indexed articles",
	RunE:  runIndexDelete,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexDeleteCmd)
}

func runIndexCreate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(GetConfig())
	if err != nil {
		return err
	}
	if err := store.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	fmt.Println("Index ready.")
	return nil
}

func runIndexDelete(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(GetConfig())
	if err != nil {
		return err
	}
	if err := store.DeleteIndex(ctx); err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	fmt.Println("Index deleted.")
	return nil
}
