package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	mcpPath        = "/mcp"
	healthPath     = "/health"
	apiKeyHeader   = "X-API-Key"
	streamMIMEType = "text/event-stream"

	// repairedAccept declares both content types the tool protocol
	// requires. The upstream gateway strips the client's Accept header,
	// and the MCP endpoint rejects requests without it.
	repairedAccept = "application/json, " + streamMIMEType
)

// ProbeResponse is the fixed payload for GET /mcp connectivity probes.
type ProbeResponse struct {
	Status   string `json:"status"`
	Server   string `json:"server"`
	Protocol string `json:"protocol"`
}

// rule is one step of the request normalization chain. Rules are
// evaluated in registration order: a corrective rule rewrites the
// request and lets evaluation continue, a terminal rule answers the
// request itself (done=true) and stops the chain.
type rule struct {
	name  string
	match func(r *http.Request) bool
	apply func(c echo.Context) (done bool, err error)
}

// normalizationRules builds the chain described in the server docs:
//
//  1. Accept repair for POST /mcp (corrective)
//  2. GET /mcp probe interception (terminal)
//  3. Auth gate for everything except OPTIONS and /health (terminal on failure)
//
// CORS preflights never reach this chain; the CORS middleware answers
// them earlier, which is required because preflights carry no API key.
func (s *Server) normalizationRules() []rule {
	return []rule{
		{
			name: "accept-repair",
			match: func(r *http.Request) bool {
				return r.Method == http.MethodPost &&
					strings.HasPrefix(r.URL.Path, mcpPath) &&
					!strings.Contains(r.Header.Get(echo.HeaderAccept), streamMIMEType)
			},
			apply: func(c echo.Context) (bool, error) {
				c.Request().Header.Set(echo.HeaderAccept, repairedAccept)
				s.logger.Debug("repaired accept header",
					zap.String("path", c.Request().URL.Path))
				return false, nil
			},
		},
		{
			// Connector tooling probes the MCP endpoint with GET, which
			// is not part of the POST-only protocol. Answer with a fixed
			// status payload instead of the protocol's 406.
			name: "probe-interception",
			match: func(r *http.Request) bool {
				return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, mcpPath)
			},
			apply: func(c echo.Context) (bool, error) {
				return true, c.JSON(http.StatusOK, ProbeResponse{
					Status:   "ok",
					Server:   "kbd",
					Protocol: "mcp-streamable-1.0",
				})
			},
		},
		{
			name: "auth-gate",
			match: func(r *http.Request) bool {
				return r.Method != http.MethodOptions && r.URL.Path != healthPath
			},
			apply: func(c echo.Context) (bool, error) {
				key := c.Request().Header.Get(apiKeyHeader)
				if _, ok := s.keys[key]; key != "" && ok {
					return false, nil
				}
				s.metrics.AuthFailure()
				return true, c.JSON(http.StatusUnauthorized, map[string]string{
					"detail": "Invalid or missing API key",
				})
			},
		},
	}
}

// normalize runs the rule chain ahead of routing.
func (s *Server) normalize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, r := range s.rules {
			if !r.match(c.Request()) {
				continue
			}
			done, err := r.apply(c)
			if done || err != nil {
				return err
			}
		}
		return next(c)
	}
}
