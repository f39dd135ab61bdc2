package mcp

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/kbd/internal/render"
	"github.com/fyrsmithlabs/kbd/internal/search"
)

const resourceMIMEType = "text/markdown"

// ResourcesReadParams contains parameters for the resources/read method.
type ResourcesReadParams struct {
	URI string `json:"uri"`
}

// resourceDefinitions enumerates every record in the knowledge base as a
// URI-addressable resource. The base is small and static, so listing
// each concrete URI beats advertising templates the client would have
// to expand itself.
func (s *Server) resourceDefinitions() []ResourceDefinition {
	st := s.engine.Store()
	defs := []ResourceDefinition{}

	for _, bp := range st.BestPractices() {
		defs = append(defs, ResourceDefinition{
			URI:         "bestpractice://" + bp.ID,
			Name:        bp.Title,
			Description: bp.Description,
			MimeType:    resourceMIMEType,
		})
	}
	for _, sn := range st.Snippets() {
		defs = append(defs, ResourceDefinition{
			URI:         "snippet://" + sn.ID,
			Name:        sn.Title,
			Description: sn.Description,
			MimeType:    resourceMIMEType,
		})
	}
	for _, tg := range st.Troubleshooting() {
		defs = append(defs, ResourceDefinition{
			URI:         "troubleshooting://" + tg.ID,
			Name:        tg.Title,
			Description: strings.Join(tg.Symptoms, "; "),
			MimeType:    resourceMIMEType,
		})
	}
	for _, tip := range st.Tips() {
		defs = append(defs, ResourceDefinition{
			URI:         "tip://" + tip.ID,
			Name:        tip.Title,
			Description: tip.Tip,
			MimeType:    resourceMIMEType,
		})
	}
	for _, g := range st.Governance() {
		defs = append(defs, ResourceDefinition{
			URI:         "governance://" + g.Feature,
			Name:        g.DisplayName,
			Description: "Governance zone requirements for " + g.DisplayName,
			MimeType:    resourceMIMEType,
		})
	}
	return defs
}

// handleResourcesRead resolves a {scheme}://{id} URI to the full
// markdown rendering of the matching record.
func (s *Server) handleResourcesRead(c echo.Context, req JSONRPCRequest) error {
	var params ResourcesReadParams
	if err := unmarshalParams(req.Params, &params); err != nil {
		return respondError(c, req.ID, InvalidParams, err)
	}

	scheme, id, ok := splitResourceURI(params.URI)
	if !ok {
		return respondError(c, req.ID, ResourceError,
			fmt.Errorf("malformed resource URI: %s", params.URI))
	}

	text, err := s.renderResource(scheme, id)
	if err != nil {
		return respondError(c, req.ID, ResourceError,
			fmt.Errorf("resource not found: %s", params.URI))
	}

	resourceReadsTotal.WithLabelValues(scheme).Inc()
	return respond(c, req.ID, map[string]interface{}{
		"contents": []ResourceContent{{
			URI:      params.URI,
			MimeType: resourceMIMEType,
			Text:     text,
		}},
	})
}

// splitResourceURI splits "scheme://id" into its parts. Both parts must
// be non-empty.
func splitResourceURI(uri string) (scheme, id string, ok bool) {
	scheme, id, found := strings.Cut(uri, "://")
	if !found || scheme == "" || id == "" {
		return "", "", false
	}
	return scheme, id, true
}

func (s *Server) renderResource(scheme, id string) (string, error) {
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
