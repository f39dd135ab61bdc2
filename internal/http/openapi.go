package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// The API description is consumed by a connector-registration system
// that cannot resolve schema references or array-typed fields. Every
// schema below is therefore fully inlined, and collection-valued fields
// (tags, symptoms, results, ...) are described as delimited strings.
// Keep it that way unless the consuming system is verified to have
// lifted the restriction.

type schema = map[string]interface{}

func strProp(desc string) schema {
	return schema{"type": "string", "description": desc}
}

func intProp(desc string) schema {
	return schema{"type": "integer", "description": desc}
}

func objSchema(desc string, props schema) schema {
	return schema{"type": "object", "description": desc, "properties": props}
}

func queryParam(name, desc string) schema {
	return schema{
		"name":        name,
		"in":          "query",
		"required":    false,
		"description": desc,
		"schema":      schema{"type": "string"},
	}
}

func pathParam(name, desc string) schema {
	return schema{
		"name":        name,
		"in":          "path",
		"required":    true,
		"description": desc,
		"schema":      schema{"type": "string"},
	}
}

func jsonResponse(desc string, s schema) schema {
	return schema{
		"description": desc,
		"content": schema{
			"application/json": schema{"schema": s},
		},
	}
}

func bestPracticeSchema() schema {
	return objSchema("A curated best practice", schema{
		"id":           strProp("Unique identifier"),
		"title":        strProp("Short title"),
		"category":     strProp("Practice category"),
		"description":  strProp("What the practice is"),
		"rationale":    strProp("Why it matters"),
		"example_good": strProp("Example of doing it right"),
		"example_bad":  strProp("Example of doing it wrong"),
		"difficulty":   strProp("One of: beginner, intermediate, advanced"),
		"tags":         strProp("Comma-delimited tags"),
	})
}

func snippetSchema() schema {
	return objSchema("A copy-paste ready code snippet", schema{
		"id":          strProp("Unique identifier"),
		"title":       strProp("Short title"),
		"language":    strProp("One of: power-fx, yaml, json, any"),
		"category":    strProp("Snippet category"),
		"description": strProp("What the snippet does"),
		"code":        strProp("The code itself"),
		"explanation": strProp("How the code works"),
		"use_case":    strProp("When to use it"),
		"tags":        strProp("Comma-delimited tags"),
	})
}

func troubleshootingSchema() schema {
	return objSchema("A troubleshooting guide", schema{
		"id":       strProp("Unique identifier"),
		"title":    strProp("Short title"),
		"category": strProp("Guide category"),
		"symptoms": strProp("Semicolon-delimited symptoms"),
		"causes":   strProp("Semicolon-delimited possible causes"),
		"steps":    strProp("Numbered resolution steps as a newline-delimited string"),
		"tags":     strProp("Comma-delimited tags"),
	})
}

func tipSchema() schema {
	return objSchema("A practical tip", schema{
		"id":             strProp("Unique identifier"),
		"title":          strProp("Short title"),
		"category":       strProp("Tip category"),
		"tip":            strProp("The tip itself"),
		"why_it_matters": strProp("Why the tip matters"),
		"tags":           strProp("Comma-delimited tags"),
	})
}

func governanceSchema() schema {
	return objSchema("Governance zone requirements for a feature", schema{
		"feature":                strProp("Canonical feature key, lowercase hyphenated"),
		"display_name":           strProp("Human-readable feature name"),
		"minimum_zone":           strProp("One of: green, yellow, red, red-extra"),
		"zones":                  strProp("Per-zone availability as a semicolon-delimited string"),
		"justification_template": strProp("Template text for zone exception requests"),
	})
}

func listSchema(itemDesc string) schema {
	return objSchema("Search result collection", schema{
		"results": strProp("Matching records (" + itemDesc + ") as a JSON-encoded string"),
		"total":   intProp("Number of matching records"),
	})
}

func listOperation(summary, opID string, params []schema, itemDesc string) schema {
	return schema{
		"get": schema{
			"summary":     summary,
			"operationId": opID,
			"parameters":  params,
			"responses": schema{
				"200": jsonResponse("Matching records", listSchema(itemDesc)),
			},
		},
	}
}

func detailOperation(summary, opID, paramName, paramDesc string, record schema) schema {
	return schema{
		"get": schema{
			"summary":     summary,
			"operationId": opID,
			"parameters":  []schema{pathParam(paramName, paramDesc)},
			"responses": schema{
				"200": jsonResponse("The record", record),
				"404": jsonResponse("No record with that identifier", objSchema("Error", schema{
					"message": strProp("Error description"),
				})),
			},
		},
	}
}

// openAPIDocument builds the API description served at /openapi.json.
func openAPIDocument() schema {
	return schema{
		"openapi": "3.0.3",
		"info": schema{
			"title":       "kbd knowledge base API",
			"description": "Curated best practices, code snippets, troubleshooting guides, tips, and governance zone information.",
			"version":     "1.0.0",
		},
		"paths": schema{
			"/api/v1/best-practices": listOperation(
				"Search best practices", "listBestPractices",
				[]schema{
					queryParam("q", "Case-insensitive substring query"),
					queryParam("category", "Exact category filter"),
					queryParam("difficulty", "One of: beginner, intermediate, advanced"),
				},
				"best practices"),
			"/api/v1/best-practices/{id}": detailOperation(
				"Get a best practice by id", "getBestPractice",
				"id", "Best practice identifier", bestPracticeSchema()),
			"/api/v1/snippets": listOperation(
				"Search code snippets", "listSnippets",
				[]schema{
					queryParam("q", "Case-insensitive substring query"),
					queryParam("language", "One of: power-fx, yaml, json, any"),
				},
				"snippets"),
			"/api/v1/snippets/{id}": detailOperation(
				"Get a snippet by id", "getSnippet",
				"id", "Snippet identifier", snippetSchema()),
			"/api/v1/troubleshooting": listOperation(
				"Search troubleshooting guides", "listTroubleshooting",
				[]schema{
					queryParam("q", "Case-insensitive substring query"),
					queryParam("category", "Exact category filter"),
				},
				"troubleshooting guides"),
			"/api/v1/troubleshooting/{id}": detailOperation(
				"Get a troubleshooting guide by id", "getTroubleshooting",
				"id", "Guide identifier", troubleshootingSchema()),
			"/api/v1/tips": listOperation(
				"List tips", "listTips",
				[]schema{queryParam("category", "Exact category filter")},
				"tips"),
			"/api/v1/governance/{feature}": detailOperation(
				"Get governance zone requirements for a feature", "getGovernance",
				"feature", "Feature name, normalized to lowercase hyphenated form", governanceSchema()),
		},
	}
}

// handleOpenAPI serves the API description document.
func (s *Server) handleOpenAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, openAPIDocument())
}
