package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/kbd/internal/render"
	"github.com/fyrsmithlabs/kbd/internal/search"
)

const resourceMIMEType = "text/markdown"

// registerResources publishes every record as a URI-addressable
// resource. The base is small and static, so each record gets its own
// concrete URI rather than a template.
func (s *Server) registerResources() {
	st := s.engine.Store()

	for _, bp := range st.BestPractices() {
		s.mcp.AddResource(&mcp.Resource{
			URI:         "bestpractice://" + bp.ID,
			Name:        bp.Title,
			Description: bp.Description,
			MIMEType:    resourceMIMEType,
		}, s.readResource)
	}
	for _, sn := range st.Snippets() {
		s.mcp.AddResource(&mcp.Resource{
			URI:         "snippet://" + sn.ID,
			Name:        sn.Title,
			Description: sn.Description,
			MIMEType:    resourceMIMEType,
		}, s.readResource)
	}
	for _, tg := range st.Troubleshooting() {
		s.mcp.AddResource(&mcp.Resource{
			URI:         "troubleshooting://" + tg.ID,
			Name:        tg.Title,
			Description: strings.Join(tg.Symptoms, "; "),
			MIMEType:    resourceMIMEType,
		}, s.readResource)
	}
	for _, tip := range st.Tips() {
		s.mcp.AddResource(&mcp.Resource{
			URI:         "tip://" + tip.ID,
			Name:        tip.Title,
			Description: tip.Tip,
			MIMEType:    resourceMIMEType,
		}, s.readResource)
	}
	for _, g := range st.Governance() {
		s.mcp.AddResource(&mcp.Resource{
			URI:         "governance://" + g.Feature,
			Name:        g.DisplayName,
			Description: "Governance zone requirements for " + g.DisplayName,
			MIMEType:    resourceMIMEType,
		}, s.readResource)
	}
}

// readResource resolves a {scheme}://{id} URI to the full markdown
// rendering of the matching record.
func (s *Server) readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	scheme, id, found := strings.Cut(req.Params.URI, "://")
	if !found || scheme == "" || id == "" {
		return nil, fmt.Errorf("malformed resource URI: %s", req.Params.URI)
	}

	text, err := s.renderRecord(scheme, id)
	if err != nil {
		return nil, fmt.Errorf("resource not found: %s", req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: resourceMIMEType,
			Text:     text,
		}},
	}, nil
}

func (s *Server) renderRecord(scheme, id string) (string, error) {
	st := s.engine.Store()
	switch scheme {
	case "bestpractice":
		bp, err := st.BestPractice(id)
		if err != nil {
			return "", err
		}
		return render.BestPractice(bp), nil
	case "snippet":
		sn, err := st.Snippet(id)
		if err != nil {
			return "", err
		}
		return render.Snippet(sn), nil
	case "troubleshooting":
		tg, err := st.TroubleshootingGuide(id)
		if err != nil {
			return "", err
		}
		return render.Troubleshooting(tg), nil
	case "tip":
		tip, err := st.Tip(id)
		if err != nil {
			return "", err
		}
		return render.Tip(tip), nil
	case "governance":
		// Feature ids arrive in whatever form the client typed;
		// governance entries are keyed by the normalized form.
		g, err := st.GovernanceEntry(search.NormalizeFeature(id))
		if err != nil {
			return "", err
		}
		return render.Governance(g), nil
	default:
		return "", fmt.Errorf("unknown resource scheme: %s", scheme)
	}
}
