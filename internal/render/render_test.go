package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/kbd/internal/store"
)

func TestBestPractice(t *testing.T) {
	out := BestPractice(store.BestPractice{
		ID:          "bp-1",
		Title:       "Keep trigger phrases distinct",
		Category:    "topics",
		Difficulty:  "beginner",
		Description: "Avoid overlap",
		Rationale:   "Overlap confuses the recognizer",
		Tags:        []string{"topics", "triggers"},
	})

	assert.Contains(t, out, "# Keep trigger phrases distinct")
	assert.Contains(t, out, "**Category**: topics")
	assert.Contains(t, out, "**Rationale**: Overlap confuses the recognizer")
	assert.Contains(t, out, "**Tags**: topics, triggers")
}

func TestSnippetIncludesFencedCode(t *testing.T) {
	out := Snippet(store.Snippet{
		Title:    "Format a date",
		Language: "power-fx",
		Code:     `Text(Now(), "yyyy-mm-dd")`,
	})

	assert.Contains(t, out, "```power-fx\nText(Now(), \"yyyy-mm-dd\")\n```")
}

func TestTroubleshootingOrdersSteps(t *testing.T) {
	out := Troubleshooting(store.TroubleshootingGuide{
		Title:    "Topic not triggering",
		Symptoms: []string{"fallback fires"},
		Causes:   []string{"trigger overlap"},
		Steps: []store.ResolutionStep{
			{Step: 1, Action: "check triggers", Details: "look for overlap"},
			{Step: 2, Action: "retest", Details: "use the tracking panel"},
		},
	})

	assert.Contains(t, out, "**Symptoms**:\n- fallback fires")
	assert.Contains(t, out, "**Step 1**: check triggers")
	assert.Contains(t, out, "**Step 2**: retest")
	assert.Less(t, strings.Index(out, "**Step 1**"), strings.Index(out, "**Step 2**"))
}

func TestTipOmitsEmptyWhy(t *testing.T) {
	out := Tip(store.Tip{Title: "Short tip", Tip: "Do the thing"})
	assert.NotContains(t, out, "Why it matters")
}

func TestGovernanceZonePolicyOrder(t *testing.T) {
	out := Governance(store.GovernanceEntry{
		Feature:     "http-connector",
		DisplayName: "HTTP Connector",
		MinimumZone: "yellow",
		Zones: map[string]store.ZoneInfo{
			"red":    {Available: true, Requirements: []string{"security review"}},
			"green":  {Available: false, Reason: "not allowed"},
			"yellow": {Available: true},
		},
		JustificationTemplate: "Describe the endpoint",
	})

	assert.Contains(t, out, "# HTTP Connector")
	assert.Contains(t, out, "**Minimum zone required**: yellow")
	assert.Contains(t, out, "Reason: not allowed")
	assert.Contains(t, out, "Requirements: security review")
	assert.Contains(t, out, "> Describe the endpoint")

	// Zones render green, yellow, red regardless of map iteration order.
	assert.Less(t, strings.Index(out, "**GREEN**"), strings.Index(out, "**YELLOW**"))
	assert.Less(t, strings.Index(out, "**YELLOW**"), strings.Index(out, "**RED**"))
}
