package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/config"
	"github.com/fyrsmithlabs/kbd/internal/logging"
	"github.com/fyrsmithlabs/kbd/internal/mcp"
	"github.com/fyrsmithlabs/kbd/internal/search"
	"github.com/fyrsmithlabs/kbd/internal/store"
)

// runStdioServer starts the MCP server in stdio mode for local editor
// and agent integrations.
//
// Stdio mode loads the same knowledge base and runs the same search
// engine as the HTTP daemon, but speaks the protocol on stdin/stdout.
// All logging goes to stderr; stdout belongs to the protocol.
func runStdioServer(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting kbd in MCP stdio mode")

	st, err := store.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	engine := search.NewEngine(st)

	mcpServer, err := mcp.NewServer(&mcp.Config{
		Name:    "kbd",
		Version: version,
		Logger:  logger,
	}, engine)
	if err != nil {
		return fmt.Errorf("failed to create stdio server: %w", err)
	}

	logger.Info("stdio MCP server created",
		zap.String("data_dir", cfg.Data.Dir))

	// Startup notice on stderr; stdout carries the protocol.
	fmt.Fprintf(os.Stderr, "kbd stdio mode started (data dir %s)\n", cfg.Data.Dir)

	if err := mcpServer.Run(ctx); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}

	logger.Info("stdio MCP server shutdown complete")
	return nil
}
