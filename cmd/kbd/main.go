// Kbd is a knowledge base daemon serving curated development guidance
// over a REST API and the Model Context Protocol.
//
// The daemon loads its knowledge base from JSON files at startup and
// serves it read-only: best practices, code snippets, troubleshooting
// guides, tips, and governance zone requirements.
//
// Usage:
//
//	# Start server with defaults
//	kbd
//
//	# Configure via environment
//	SERVER_PORT=2011 API_KEYS=secret1,secret2 kbd
//
//	# Serve local editors over stdio instead of HTTP
//	kbd stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/config"
	kbdhttp "github.com/fyrsmithlabs/kbd/internal/http"
	"github.com/fyrsmithlabs/kbd/internal/logging"
	"github.com/fyrsmithlabs/kbd/internal/search"
	"github.com/fyrsmithlabs/kbd/internal/store"
	"github.com/fyrsmithlabs/kbd/pkg/mcp"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath = flag.String("config", "", "path to YAML config file")

func main() {
	flag.Parse()
	args := flag.Args()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		case "stdio":
			if err := runStdioServer(ctx, *configPath); err != nil {
				log.Fatalf("Stdio server error: %v", err)
			}
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  kbd           Start the knowledge base daemon\n")
			fmt.Fprintf(os.Stderr, "  kbd stdio     Serve MCP over stdio for local clients\n")
			fmt.Fprintf(os.Stderr, "  kbd version   Show version information\n")
			os.Exit(1)
		}
	}

	if err := run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("kbd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the daemon and blocks until context cancellation.
//
// Startup order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Load the knowledge base from disk (fatal on failure; a server
//     with no data has nothing to serve)
//  4. Wire the search engine and both protocol surfaces
//  5. Serve until signaled, then shut down within the configured timeout
func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting kbd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	st, err := store.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	counts := st.Counts()
	logger.Info("Knowledge base loaded",
		zap.Int("best_practices", counts["best_practices"]),
		zap.Int("snippets", counts["snippets"]),
		zap.Int("troubleshooting", counts["troubleshooting"]),
		zap.Int("tips", counts["tips"]),
		zap.Int("governance", counts["governance"]))

	engine := search.NewEngine(st)

	mcpServer, err := mcp.NewServer(engine, logger)
	if err != nil {
		return fmt.Errorf("failed to create mcp server: %w", err)
	}
	defer mcpServer.Shutdown()

	keys := cfg.Auth.KeySet()
	if len(keys) == 0 {
		logger.Warn("No API keys configured; all authenticated routes will reject requests")
	}

	srv, err := kbdhttp.NewServer(engine, mcpServer.HandleRequest, keys, logger, &kbdhttp.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("mcp_endpoint", "/mcp"),
		zap.String("metrics_endpoint", "/metrics"))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
