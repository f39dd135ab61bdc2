// Package mcp provides the stdio MCP server built on the official SDK
// (github.com/modelcontextprotocol/go-sdk/mcp).
//
// The stdio transport serves local editor and agent integrations; it
// exposes the same five knowledge base tools and URI-addressable
// resources as the HTTP transport, calling the search engine directly.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/search"
)

// Server wraps an SDK MCP server bound to the knowledge base.
type Server struct {
	mcp    *mcp.Server
	engine *search.Engine
	logger *zap.Logger
}

// Config configures the stdio MCP server.
type Config struct {
	// Name is the server implementation name (default: "kbd")
	Name string

	// Version is the server version (default: "1.0.0")
	Version string

	// Logger for structured logging
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "kbd",
		Version: "1.0.0",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates a new stdio MCP server over the given engine.
func NewServer(cfg *Config, engine *search.Engine) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if engine == nil {
		return nil, fmt.Errorf("search engine is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: engine,
		logger: cfg.Logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
