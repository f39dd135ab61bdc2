// Package http provides the HTTP API for kbd: the REST surface, the
// request normalization middleware shared with the MCP endpoint, and
// the machine-readable API description.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/search"
	"github.com/fyrsmithlabs/kbd/internal/store"
)

// Server provides HTTP endpoints for kbd.
type Server struct {
	echo    *echo.Echo
	engine  *search.Engine
	keys    map[string]struct{}
	logger  *zap.Logger
	config  *Config
	metrics *Metrics
	rules   []rule
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server over the given engine.
//
// mcpHandler serves POST /mcp; it is registered behind the same
// normalization middleware as the REST routes.
func NewServer(engine *search.Engine, mcpHandler echo.HandlerFunc, keys map[string]struct{}, logger *zap.Logger, cfg *Config) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if mcpHandler == nil {
		return nil, fmt.Errorf("mcp handler cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 2011,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  engine,
		keys:    keys,
		logger:  logger,
		config:  cfg,
		metrics: NewMetrics(),
	}
	s.rules = s.normalizationRules()
	e.Use(s.metrics.Middleware())
	e.Use(s.normalize)

	s.registerRoutes(mcpHandler)

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(mcpHandler echo.HandlerFunc) {
	// Health check and metrics
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API description for connector registration
	s.echo.GET("/openapi.json", s.handleOpenAPI)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.GET("/best-practices", s.handleListBestPractices)
	v1.GET("/best-practices/:id", s.handleGetBestPractice)
	v1.GET("/snippets", s.handleListSnippets)
	v1.GET("/snippets/:id", s.handleGetSnippet)
	v1.GET("/troubleshooting", s.handleListTroubleshooting)
	v1.GET("/troubleshooting/:id", s.handleGetTroubleshooting)
	v1.GET("/tips", s.handleListTips)
	v1.GET("/governance/:feature", s.handleGetGovernance)

	// Tool/resource protocol endpoint. GET /mcp never reaches this
	// handler; the normalization middleware answers it as a probe.
	s.echo.POST("/mcp", mcpHandler)
}

// listResponse wraps a collection result with its match count.
type listResponse[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	DataLoaded bool   `json:"data_loaded"`
}

// handleHealth returns the liveness payload. Exempt from auth.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "healthy", DataLoaded: true})
}

func (s *Server) handleListBestPractices(c echo.Context) error {
	results := s.engine.BestPractices(
		c.QueryParam("q"),
		c.QueryParam("category"),
		c.QueryParam("difficulty"),
	)
	return c.JSON(http.StatusOK, listResponse[store.BestPractice]{Results: results, Total: len(results)})
}

func (s *Server) handleGetBestPractice(c echo.Context) error {
	bp, err := s.engine.Store().BestPractice(c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, bp)
}

func (s *Server) handleListSnippets(c echo.Context) error {
	results := s.engine.Snippets(
		c.QueryParam("q"),
		c.QueryParam("language"),
	)
	return c.JSON(http.StatusOK, listResponse[store.Snippet]{Results: results, Total: len(results)})
}

func (s *Server) handleGetSnippet(c echo.Context) error {
	sn, err := s.engine.Store().Snippet(c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, sn)
}

func (s *Server) handleListTroubleshooting(c echo.Context) error {
	results := s.engine.Troubleshooting(
		c.QueryParam("q"),
		c.QueryParam("category"),
	)
	return c.JSON(http.StatusOK, listResponse[store.TroubleshootingGuide]{Results: results, Total: len(results)})
}

func (s *Server) handleGetTroubleshooting(c echo.Context) error {
	g, err := s.engine.Store().TroubleshootingGuide(c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleListTips(c echo.Context) error {
	results := s.engine.Tips(c.QueryParam("category"))
	return c.JSON(http.StatusOK, listResponse[store.Tip]{Results: results, Total: len(results)})
}

func (s *Server) handleGetGovernance(c echo.Context) error {
	entry, err := s.engine.Governance(c.Param("feature"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, entry)
}

// notFound maps store lookup failures to a 404 without leaking internals.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return err
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
