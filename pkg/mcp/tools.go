package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/kbd/internal/render"
)

// unmarshalParams decodes raw JSON-RPC params into a typed struct.
func unmarshalParams(raw json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// decodeArgs converts loosely-typed tool arguments into a typed struct.
func decodeArgs(args map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// textResult builds a plain-text tool result with optional structured content.
func textResult(text string, structured interface{}) ToolResult {
	return ToolResult{
		Content:           []TextContent{{Type: "text", Text: text}},
		StructuredContent: structured,
	}
}

// toolDefinitions lists the invokable tools for tools/list. Schemas are
// inlined objects with scalar properties only, matching what the
// consuming connector system can parse.
func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "search_best_practices",
			Description: "Search curated best practices. Returns matching practices with title, description, and rationale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Case-insensitive substring query",
					},
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Exact category filter",
					},
					"difficulty": map[string]interface{}{
						"type":        "string",
						"description": "One of: beginner, intermediate, advanced",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_code_snippet",
			Description: "Get copy-paste ready code snippets. Look up one snippet by id, or search by query with an optional language filter (power-fx, yaml, json, any).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Snippet identifier for an exact lookup",
					},
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Case-insensitive substring query",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "One of: power-fx, yaml, json, any",
					},
				},
			},
		},
		{
			Name:        "troubleshoot_issue",
			Description: "Get step-by-step troubleshooting for an issue. Describe the problem or error message.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"issue": map[string]interface{}{
						"type":        "string",
						"description": "The problem or error message",
					},
				},
				"required": []string{"issue"},
			},
		},
		{
			Name:        "get_tips_for_feature",
			Description: "Get tips and tricks for a specific feature like topics, testing, or authoring.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"feature": map[string]interface{}{
						"type":        "string",
						"description": "Feature name to look up tips for",
					},
				},
				"required": []string{"feature"},
			},
		},
		{
			Name:        "check_governance_zone",
			Description: "Check what governance zone a feature requires, like http-connector or mcp-servers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"feature": map[string]interface{}{
						"type":        "string",
						"description": "Feature name, free form; normalized to lowercase hyphenated",
					},
				},
				"required": []string{"feature"},
			},
		},
	}
}

// handleToolsCall routes a tools/call request to the matching tool.
func (s *Server) handleToolsCall(c echo.Context, req JSONRPCRequest) error {
	var params ToolsCallParams
	if err := unmarshalParams(req.Params, &params); err != nil {
		return respondError(c, req.ID, InvalidParams, err)
	}

	var (
		result ToolResult
		err    error
	)
	switch params.Name {
	case "search_best_practices":
		result, err = s.callSearchBestPractices(params.Arguments)
	case "get_code_snippet":
		result, err = s.callGetCodeSnippet(params.Arguments)
	case "troubleshoot_issue":
		result, err = s.callTroubleshootIssue(params.Arguments)
	case "get_tips_for_feature":
		result, err = s.callGetTipsForFeature(params.Arguments)
	case "check_governance_zone":
		result, err = s.callCheckGovernanceZone(params.Arguments)
	default:
		return respondError(c, req.ID, InvalidParams,
			fmt.Errorf("unknown tool: %s", params.Name))
	}
	if err != nil {
		return respondError(c, req.ID, InvalidParams, err)
	}

	toolCallsTotal.WithLabelValues(params.Name).Inc()
	return respond(c, req.ID, result)
}

func (s *Server) callSearchBestPractices(args map[string]interface{}) (ToolResult, error) {
	var in struct {
		Query      string `json:"query"`
		Category   string `json:"category"`
		Difficulty string `json:"difficulty"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	if in.Query == "" {
		return ToolResult{}, fmt.Errorf("query is required")
	}

	results := s.engine.BestPractices(in.Query, in.Category, in.Difficulty)
	structured := map[string]interface{}{"results": results, "total": len(results)}
	if len(results) == 0 {
		return textResult("No best practices found matching your query.", structured), nil
	}

	var b strings.Builder
	for i, bp := range results {
		fmt.Fprintf(&b, "\n## %d. %s\n", i+1, bp.Title)
		fmt.Fprintf(&b, "**Description**: %s\n", bp.Description)
		fmt.Fprintf(&b, "**Rationale**: %s\n", bp.Rationale)
		fmt.Fprintf(&b, "*Difficulty: %s*\n", bp.Difficulty)
		fmt.Fprintf(&b, "Resource URI: bestpractice://%s\n", bp.ID)
	}
	return textResult(b.String(), structured), nil
}

func (s *Server) callGetCodeSnippet(args map[string]interface{}) (ToolResult, error) {
	var in struct {
		ID       string `json:"id"`
		Query    string `json:"query"`
		Language string `json:"language"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}

	// Exact lookup wins over search when an id is supplied.
	if in.ID != "" {
		sn, err := s.engine.Store().Snippet(in.ID)
		if err != nil {
			return textResult(fmt.Sprintf("Snippet '%s' not found.", in.ID), nil), nil
		}
		return textResult(render.Snippet(sn), sn), nil
	}

	if in.Query == "" {
		return ToolResult{}, fmt.Errorf("either id or query is required")
	}

	results := s.engine.Snippets(in.Query, in.Language)
	structured := map[string]interface{}{"results": results, "total": len(results)}
	if len(results) == 0 {
		return textResult("No code snippets found matching your query.", structured), nil
	}

	var b strings.Builder
	for _, sn := range results {
		fmt.Fprintf(&b, "\n%s\n", render.Snippet(sn))
		fmt.Fprintf(&b, "Resource URI: snippet://%s\n", sn.ID)
	}
	return textResult(b.String(), structured), nil
}

func (s *Server) callTroubleshootIssue(args map[string]interface{}) (ToolResult, error) {
	var in struct {
		Issue string `json:"issue"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	if in.Issue == "" {
		return ToolResult{}, fmt.Errorf("issue is required")
	}

	results := s.engine.Troubleshooting(in.Issue, "")
	structured := map[string]interface{}{"results": results, "total": len(results)}
	if len(results) == 0 {
		return textResult("No troubleshooting guides found for this issue.", structured), nil
	}

	var b strings.Builder
	b.WriteString(render.Troubleshooting(results[0]))
	fmt.Fprintf(&b, "\n\nResource URI: troubleshooting://%s\n", results[0].ID)
	if len(results) > 1 {
		b.WriteString("\n**Other related guides**:\n")
		for _, other := range results[1:] {
			fmt.Fprintf(&b, "- %s (troubleshooting://%s)\n", other.Title, other.ID)
		}
	}
	return textResult(b.String(), structured), nil
}

func (s *Server) callGetTipsForFeature(args map[string]interface{}) (ToolResult, error) {
	var in struct {
		Feature string `json:"feature"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	if in.Feature == "" {
		return ToolResult{}, fmt.Errorf("feature is required")
	}

	results := s.engine.TipsForFeature(in.Feature)
	structured := map[string]interface{}{"results": results, "total": len(results)}
	if len(results) == 0 {
		return textResult(fmt.Sprintf("No tips found for '%s'.", in.Feature), structured), nil
	}

	var b strings.Builder
	for _, t := range results {
		fmt.Fprintf(&b, "\n## %s\n", t.Title)
		fmt.Fprintf(&b, "%s\n", t.Tip)
		if t.WhyItMatters != "" {
			fmt.Fprintf(&b, "\n*Why it matters*: %s\n", t.WhyItMatters)
		}
		fmt.Fprintf(&b, "Resource URI: tip://%s\n", t.ID)
	}
	return textResult(b.String(), structured), nil
}

func (s *Server) callCheckGovernanceZone(args map[string]interface{}) (ToolResult, error) {
	var in struct {
		Feature string `json:"feature"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return ToolResult{}, err
	}
	if in.Feature == "" {
		return ToolResult{}, fmt.Errorf("feature is required")
	}

	entry, err := s.engine.Governance(in.Feature)
	if err != nil {
		return textResult(fmt.Sprintf("No governance information found for '%s'.", in.Feature), nil), nil
	}

	text := render.Governance(entry) +
		fmt.Sprintf("\n\nResource URI: governance://%s", entry.Feature)
	return textResult(text, entry), nil
}
