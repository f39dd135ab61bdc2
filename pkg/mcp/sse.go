package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Event is the wire envelope of the Streamable HTTP transport: an event
// name plus a JSON payload. Every response on POST /mcp is written as
// one of these, even single-shot ones — only the payload serialization
// is shared with the REST surface's plain JSON bodies.
type Event struct {
	Name string
	Data interface{}
}

// writeEvent frames a payload as a Server-Sent Event and flushes it.
//
//	event: message
//	data: {"jsonrpc":"2.0", ...}
func writeEvent(c echo.Context, ev Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	res := c.Response()
	header := res.Header()
	if header.Get(echo.HeaderContentType) == "" {
		header.Set(echo.HeaderContentType, "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("X-Accel-Buffering", "no") // Disable proxy buffering
		res.WriteHeader(http.StatusOK)
	}

	fmt.Fprintf(res, "event: %s\n", ev.Name)
	fmt.Fprintf(res, "data: %s\n\n", data)
	res.Flush()
	return nil
}

// respond frames a successful JSON-RPC response as a message event.
func respond(c echo.Context, id, result interface{}) error {
	return writeEvent(c, Event{
		Name: "message",
		Data: JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result},
	})
}

// respondError frames a JSON-RPC error as a message event. Protocol
// errors are still a 200 at the HTTP layer; the error lives in the
// JSON-RPC envelope.
func respondError(c echo.Context, id interface{}, code int, err error) error {
	return writeEvent(c, Event{
		Name: "message",
		Data: JSONRPCError{
			JSONRPC: "2.0",
			ID:      id,
			Error:   &ErrorDetail{Code: code, Message: err.Error()},
		},
	})
}
