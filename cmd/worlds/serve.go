package main

import (
	"context"

	"github.com/spf13/cobra"

	"worlds/internal/config"
	"worlds/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.DefaultFile)
	if err != nil {
		return err
	}

	registry := openRegistry(cfg)
	registry.Load()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	server := mcp.NewServer(registry, db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
