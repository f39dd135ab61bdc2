package mcp

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbd/internal/search"
)

// ServerName and ServerVersion identify this implementation during the
// initialize handshake.
const (
	ServerName    = "kbd"
	ServerVersion = "1.0.0"
)

// Server implements the MCP protocol over HTTP.
//
// The server exposes the knowledge base's five search/lookup tools and
// its URI-addressable resources through JSON-RPC 2.0 on a single POST
// endpoint, framing responses as SSE per the Streamable HTTP transport.
type Server struct {
	engine   *search.Engine
	sessions *SessionStore
	logger   *zap.Logger
}

// NewServer creates a new MCP server over the given engine.
func NewServer(engine *search.Engine, logger *zap.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   engine,
		sessions: NewSessionStore(),
		logger:   logger,
	}, nil
}

// Shutdown tears down all live sessions.
func (s *Server) Shutdown() {
	s.sessions.CloseAll()
}

// HandleRequest handles POST /mcp with JSON-RPC 2.0 method routing.
//
// Per the MCP Streamable HTTP transport this endpoint:
//   - Validates the Accept header declares both application/json and
//     text/event-stream (the normalization middleware repairs stripped
//     headers before requests get here)
//   - Returns Mcp-Session-Id after a successful initialize
//   - Requires Mcp-Session-Id for all non-initialize requests
//   - Frames every response as an SSE message event
func (s *Server) HandleRequest(c echo.Context) error {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	if !validAcceptHeader(accept) {
		return c.JSON(http.StatusNotAcceptable, JSONRPCError{
			JSONRPC: "2.0",
			Error: &ErrorDetail{
				Code:    InvalidRequest,
				Message: "Not Acceptable: client must accept both application/json and text/event-stream",
				Data: map[string]interface{}{
					"accept_header": accept,
					"required":      "application/json, text/event-stream",
				},
			},
		})
	}

	var req JSONRPCRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, nil, ParseError, err)
	}

	s.logger.Debug("mcp request",
		zap.String("method", req.Method),
		zap.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(c, req)

	case "notifications/initialized":
		// Notification, no response body expected.
		return c.NoContent(http.StatusAccepted)

	case "ping":
		return respond(c, req.ID, map[string]interface{}{})

	case "tools/list":
		if err := s.requireSession(c); err != nil {
			return respondError(c, req.ID, SessionError, err)
		}
		return respond(c, req.ID, map[string]interface{}{"tools": toolDefinitions()})

	case "tools/call":
		if err := s.requireSession(c); err != nil {
			return respondError(c, req.ID, SessionError, err)
		}
		return s.handleToolsCall(c, req)

	case "resources/list":
		if err := s.requireSession(c); err != nil {
			return respondError(c, req.ID, SessionError, err)
		}
		return respond(c, req.ID, map[string]interface{}{"resources": s.resourceDefinitions()})

	case "resources/read":
		if err := s.requireSession(c); err != nil {
			return respondError(c, req.ID, SessionError, err)
		}
		return s.handleResourcesRead(c, req)

	default:
		return respondError(c, req.ID, MethodNotFound,
			fmt.Errorf("unknown method: %s", req.Method))
	}
}

// handleInitialize creates a session and returns server capabilities.
// It is the only method that does not require an existing session.
func (s *Server) handleInitialize(c echo.Context, req JSONRPCRequest) error {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := unmarshalParams(req.Params, &params); err != nil {
			return respondError(c, req.ID, InvalidParams, err)
		}
	}

	session := s.sessions.Create(params)
	sessionsInitialized.Inc()

	c.Response().Header().Set("Mcp-Session-Id", session.ID)
	c.Response().Header().Set("Mcp-Protocol-Version", session.ProtocolVersion)

	s.logger.Info("mcp session initialized",
		zap.String("session_id", session.ID),
		zap.String("client", params.ClientInfo.Name))

	return respond(c, req.ID, InitializeResult{
		ProtocolVersion: session.ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     map[string]interface{}{},
			Resources: map[string]interface{}{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	})
}

// requireSession checks the Mcp-Session-Id header against the store.
func (s *Server) requireSession(c echo.Context) error {
	sessionID := c.Request().Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		return fmt.Errorf("missing Mcp-Session-Id header")
	}
	if s.sessions.Get(sessionID) == nil {
		return fmt.Errorf("unknown session: %s", sessionID)
	}
	return nil
}
