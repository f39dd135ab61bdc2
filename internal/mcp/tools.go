package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/kbd/internal/render"
	"github.com/fyrsmithlabs/kbd/internal/store"
)

type searchBestPracticesInput struct {
	Query      string `json:"query" jsonschema:"required,Case-insensitive substring query against titles, descriptions, and tags"`
	Category   string `json:"category,omitempty" jsonschema:"Exact category filter"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"One of: beginner, intermediate, advanced"`
}

type searchBestPracticesOutput struct {
	Results []store.BestPractice `json:"results" jsonschema:"Matching best practices in knowledge base order"`
	Total   int                  `json:"total" jsonschema:"Number of matches"`
}

type getCodeSnippetInput struct {
	ID       string `json:"id,omitempty" jsonschema:"Snippet identifier for an exact lookup"`
	Query    string `json:"query,omitempty" jsonschema:"Case-insensitive substring query"`
	Language string `json:"language,omitempty" jsonschema:"One of: power-fx, yaml, json, any"`
}

type getCodeSnippetOutput struct {
	Results []store.Snippet `json:"results" jsonschema:"Matching snippets in knowledge base order"`
	Total   int             `json:"total" jsonschema:"Number of matches"`
}

type troubleshootIssueInput struct {
	Issue string `json:"issue" jsonschema:"required,The problem or error message to troubleshoot"`
}

type troubleshootIssueOutput struct {
	Results []store.TroubleshootingGuide `json:"results" jsonschema:"Matching guides, best match first"`
	Total   int                          `json:"total" jsonschema:"Number of matches"`
}

type tipsForFeatureInput struct {
	Feature string `json:"feature" jsonschema:"required,Feature name to look up tips for, like topics or testing"`
}

type tipsForFeatureOutput struct {
	Results []store.Tip `json:"results" jsonschema:"Matching tips in knowledge base order"`
	Total   int         `json:"total" jsonschema:"Number of matches"`
}

type governanceZoneInput struct {
	Feature string `json:"feature" jsonschema:"required,Feature name, free form; normalized to lowercase hyphenated"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_best_practices",
		Description: "Search curated best practices. Returns matching practices with title, description, and rationale.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args searchBestPracticesInput) (*mcp.CallToolResult, searchBestPracticesOutput, error) {
		if args.Query == "" {
			return nil, searchBestPracticesOutput{}, fmt.Errorf("query is required")
		}

		results := s.engine.BestPractices(args.Query, args.Category, args.Difficulty)
		output := searchBestPracticesOutput{Results: results, Total: len(results)}

		if len(results) == 0 {
			return textContent("No best practices found matching your query."), output, nil
		}

		var b strings.Builder
		for i, bp := range results {
			fmt.Fprintf(&b, "\n## %d. %s\n", i+1, bp.Title)
			fmt.Fprintf(&b, "**Description**: %s\n", bp.Description)
			fmt.Fprintf(&b, "**Rationale**: %s\n", bp.Rationale)
			fmt.Fprintf(&b, "*Difficulty: %s*\n", bp.Difficulty)
			fmt.Fprintf(&b, "Resource URI: bestpractice://%s\n", bp.ID)
		}
		return textContent(b.String()), output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_code_snippet",
		Description: "Get copy-paste ready code snippets. Look up one snippet by id, or search by query with an optional language filter (power-fx, yaml, json, any).",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getCodeSnippetInput) (*mcp.CallToolResult, getCodeSnippetOutput, error) {
		if args.ID != "" {
			sn, err := s.engine.Store().Snippet(args.ID)
			if err != nil {
				return textContent(fmt.Sprintf("Snippet '%s' not found.", args.ID)),
					getCodeSnippetOutput{Results: []store.Snippet{}}, nil
			}
			return textContent(render.Snippet(sn)),
				getCodeSnippetOutput{Results: []store.Snippet{sn}, Total: 1}, nil
		}

		if args.Query == "" {
			return nil, getCodeSnippetOutput{}, fmt.Errorf("either id or query is required")
		}

		results := s.engine.Snippets(args.Query, args.Language)
		output := getCodeSnippetOutput{Results: results, Total: len(results)}

		if len(results) == 0 {
			return textContent("No code snippets found matching your query."), output, nil
		}

		var b strings.Builder
		for _, sn := range results {
			fmt.Fprintf(&b, "\n%s\n", render.Snippet(sn))
			fmt.Fprintf(&b, "Resource URI: snippet://%s\n", sn.ID)
		}
		return textContent(b.String()), output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "troubleshoot_issue",
		Description: "Get step-by-step troubleshooting for an issue. Describe the problem or error message.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args troubleshootIssueInput) (*mcp.CallToolResult, troubleshootIssueOutput, error) {
		if args.Issue == "" {
			return nil, troubleshootIssueOutput{}, fmt.Errorf("issue is required")
		}

		results := s.engine.Troubleshooting(args.Issue, "")
		output := troubleshootIssueOutput{Results: results, Total: len(results)}

		if len(results) == 0 {
			return textContent("No troubleshooting guides found for this issue."), output, nil
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
		return textContent(b.String()), output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_tips_for_feature",
		Description: "Get tips and tricks for a specific feature like topics, testing, or authoring.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args tipsForFeatureInput) (*mcp.CallToolResult, tipsForFeatureOutput, error) {
		if args.Feature == "" {
			return nil, tipsForFeatureOutput{}, fmt.Errorf("feature is required")
		}

		results := s.engine.TipsForFeature(args.Feature)
		output := tipsForFeatureOutput{Results: results, Total: len(results)}

		if len(results) == 0 {
			return textContent(fmt.Sprintf("No tips found for '%s'.", args.Feature)), output, nil
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
		return textContent(b.String()), output, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_governance_zone",
		Description: "Check what governance zone a feature requires, like http-connector or mcp-servers.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args governanceZoneInput) (*mcp.CallToolResult, store.GovernanceEntry, error) {
		if args.Feature == "" {
			return nil, store.GovernanceEntry{}, fmt.Errorf("feature is required")
		}

		entry, err := s.engine.Governance(args.Feature)
		if err != nil {
			return textContent(fmt.Sprintf("No governance information found for '%s'.", args.Feature)),
				store.GovernanceEntry{}, nil
		}

		text := render.Governance(entry) +
			fmt.Sprintf("\n\nResource URI: governance://%s", entry.Feature)
		return textContent(text), entry, nil
	})
}

func textContent(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
