package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, authed(http.MethodGet, "/openapi.json"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()

	// The consuming connector system cannot resolve references or
	// array-typed fields, so neither may appear anywhere in the document.
	assert.NotContains(t, body, "$ref")
	assert.NotContains(t, body, `"array"`)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)

	for _, p := range []string{
		"/api/v1/best-practices",
		"/api/v1/best-practices/{id}",
		"/api/v1/snippets",
		"/api/v1/snippets/{id}",
		"/api/v1/troubleshooting",
		"/api/v1/troubleshooting/{id}",
		"/api/v1/tips",
		"/api/v1/governance/{feature}",
	} {
		assert.Contains(t, paths, p)
	}
}

func TestOpenAPICollectionFieldsAreStrings(t *testing.T) {
	// Walk every schema node and verify no property declares a non-scalar
	// type other than object.
	var walk func(t *testing.T, node interface{})
	walk = func(t *testing.T, node interface{}) {
		switch v := node.(type) {
		case map[string]interface{}:
			if typ, ok := v["type"].(string); ok {
				assert.Contains(t, []string{"string", "integer", "object"}, typ)
			}
			for _, child := range v {
				walk(t, child)
			}
		case []interface{}:
			for _, child := range v {
				walk(t, child)
			}
		}
	}

	data, err := json.Marshal(openAPIDocument())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	walk(t, doc)

	// Spot-check that collection fields became delimited strings.
	s := string(data)
	assert.True(t, strings.Contains(s, "Comma-delimited tags"))
	assert.True(t, strings.Contains(s, "Semicolon-delimited symptoms"))
}
