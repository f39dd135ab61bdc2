package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are package-level so repeated server construction (tests
// spin up many servers against the default registry) never panics on
// duplicate registration.
var (
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbd_mcp_tool_calls_total",
			Help: "Total MCP tool invocations by tool name.",
		},
		[]string{"tool"},
	)

	resourceReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbd_mcp_resource_reads_total",
			Help: "Total MCP resource reads by URI scheme.",
		},
		[]string{"scheme"},
	)

	sessionsInitialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kbd_mcp_sessions_initialized_total",
			Help: "Total MCP sessions created via the initialize handshake.",
		},
	)
)
