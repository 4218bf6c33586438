// Package api/openapi serves the OpenAPI 3.0 document and a Swagger UI page.
//
// INTEGRATION POINTS:
// - internal/api/server.go: routes listed here must match Handler()
// - internal/validation/validator.go: request schemas mirror the validation schemas
// - internal/errors/handlers.go: ErrorResponse matches HTTPErrorHandler.FormatError()
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/validation"
)

// handleOpenAPI serves the OpenAPI documentation interface
func (s *APIServer) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}

	html := `<!DOCTYPE html>
<html>
<head>
    <title>Prompt Lab API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis]
            });
        };
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// handleOpenAPISpec serves the OpenAPI JSON specification
func (s *APIServer) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(getOpenAPISpec())
}

type object = map[string]interface{}

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func jsonBody(schema object) object {
	return object{
		"required": true,
		"content":  object{"application/json": object{"schema": schema}},
	}
}

func operation(summary, tag string, body object, params ...object) object {
	op := object{
		"summary": summary,
		"tags":    []string{tag},
		"responses": object{
			"200": object{"description": "Success", "content": object{"application/json": object{"schema": ref("APIResponse")}}},
			"400": object{"description": "Invalid request", "content": object{"application/json": object{"schema": ref("ErrorResponse")}}},
			"404": object{"description": "Not found", "content": object{"application/json": object{"schema": ref("ErrorResponse")}}},
		},
	}
	if body != nil {
		op["requestBody"] = body
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func pathParam(name, description string) object {
	return object{"name": name, "in": "path", "required": true, "description": description, "schema": object{"type": "string"}}
}

func queryParam(name, description string) object {
	return object{"name": name, "in": "query", "description": description, "schema": object{"type": "string"}}
}

func stringMapSchema(description string) object {
	return object{"type": "object", "description": description, "additionalProperties": object{"type": "string"}}
}

func enumSchema(options []string) object {
	return object{"type": "string", "enum": options}
}

// getOpenAPISpec returns the OpenAPI 3.0 specification
func getOpenAPISpec() object {
	sessionID := pathParam("id", "Session id")

	return object{
		"openapi": "3.0.3",
		"info": object{
			"title":       "Prompt Lab API",
			"description": "Build structured LLM prompts from named frameworks, classify free-text goals and export the result.",
			"version":     config.Version,
		},
		"servers": []object{{"url": "http://localhost:8080", "description": "Local development server"}},
		"paths": object{
			"/api/v1/frameworks": object{
				"get": operation("List frameworks", "Frameworks", nil, queryParam("format", "json or ids")),
			},
			"/api/v1/frameworks/{id}": object{
				"get": operation("Get a framework", "Frameworks", nil, pathParam("id", "Framework id")),
			},
			"/api/v1/frameworks/search": object{
				"get": operation("Fuzzy search frameworks", "Frameworks", nil, queryParam("q", "Search query")),
			},
			"/api/v1/render": object{
				"post": operation("Render a prompt", "Prompts", jsonBody(ref("RenderRequest"))),
			},
			"/api/v1/classify": object{
				"post": operation("Recommend a framework for free text", "Prompts", jsonBody(ref("ClassifyRequest"))),
			},
			"/api/v1/export": object{
				"post": operation("Export a prompt as markdown", "Prompts", jsonBody(ref("ExportRequest"))),
			},
			"/api/v1/vibes": object{
				"get": operation("List models and vibes", "Vibes", nil),
			},
			"/api/v1/vibe": object{
				"post": operation("Render a style snippet", "Vibes", jsonBody(ref("VibeSelection"))),
			},
			"/api/v1/sessions": object{
				"get":  operation("List sessions", "Sessions", nil),
				"post": operation("Create a session", "Sessions", jsonBody(object{"type": "object", "properties": object{"frameworkId": object{"type": "string"}}})),
			},
			"/api/v1/sessions/{id}": object{
				"get":    operation("Get a session", "Sessions", nil, sessionID),
				"delete": operation("Delete a session", "Sessions", nil, sessionID),
			},
			"/api/v1/sessions/{id}/fields": object{
				"put": operation("Set field values", "Sessions", jsonBody(object{
					"type":       "object",
					"required":   []string{"values"},
					"properties": object{"frameworkId": object{"type": "string"}, "values": stringMapSchema("Field values by key")},
				}), sessionID),
			},
			"/api/v1/sessions/{id}/extras": object{
				"put": operation("Set extras, title and vibe", "Sessions", jsonBody(object{
					"type": "object",
					"properties": object{
						"extras": ref("Extras"),
						"title":  object{"type": "string", "maxLength": validation.MaxTitleLength},
						"vibe":   ref("VibeSelection"),
					},
				}), sessionID),
			},
			"/api/v1/sessions/{id}/reset": object{
				"post": operation("Clear values, extras and title", "Sessions", nil, sessionID),
			},
			"/api/v1/sessions/{id}/intake": object{
				"post": operation("Classify text and pre-fill the session", "Sessions", jsonBody(ref("ClassifyRequest")), sessionID),
			},
			"/api/v1/sessions/{id}/output": object{
				"get": operation("Render the session", "Sessions", nil, sessionID),
			},
			"/api/v1/commands": object{
				"get": operation("List commands", "System", nil),
			},
			"/api/v1/health": object{
				"get": operation("Health check", "System", nil),
			},
		},
		"components": object{
			"schemas": object{
				"Extras": object{
					"type": "object",
					"properties": object{
						"audience":    object{"type": "string"},
						"tone":        object{"type": "string"},
						"length":      object{"type": "string"},
						"style":       object{"type": "string"},
						"constraints": object{"type": "string"},
					},
				},
				"VibeSelection": object{
					"type": "object",
					"properties": object{
						"model": enumSchema(validation.ModelOptions()),
						"vibe":  enumSchema(validation.VibeOptions()),
					},
				},
				"RenderRequest": object{
					"type":     "object",
					"required": []string{"frameworkId"},
					"properties": object{
						"frameworkId": object{"type": "string"},
						"values":      stringMapSchema("Field values by key"),
						"extras":      ref("Extras"),
						"vibe":        ref("VibeSelection"),
						"format":      enumSchema([]string{"text", "json"}),
					},
				},
				"ExportRequest": object{
					"type":     "object",
					"required": []string{"frameworkId"},
					"properties": object{
						"frameworkId": object{"type": "string"},
						"values":      stringMapSchema("Field values by key"),
						"extras":      ref("Extras"),
						"vibe":        ref("VibeSelection"),
						"title":       object{"type": "string", "maxLength": validation.MaxTitleLength},
						"write":       object{"type": "boolean", "description": "Write the file to the export directory"},
					},
				},
				"ClassifyRequest": object{
					"type":     "object",
					"required": []string{"text"},
					"properties": object{
						"text":        object{"type": "string", "maxLength": validation.MaxIntakeLength},
						"frameworkId": object{"type": "string", "description": "Session intake only: framework to apply instead of the recommendation"},
					},
				},
				"APIResponse": object{
					"type": "object",
					"properties": object{
						"success":   object{"type": "boolean"},
						"data":      object{"description": "Response payload"},
						"message":   object{"type": "string"},
						"timestamp": object{"type": "string", "format": "date-time"},
					},
					"required": []string{"success", "timestamp"},
				},
				"ErrorResponse": object{
					"type": "object",
					"properties": object{
						"success": object{"type": "boolean"},
						"error": object{
							"type": "object",
							"properties": object{
								"code":      object{"type": "string", "description": "Error code"},
								"message":   object{"type": "string", "description": "Error message"},
								"details":   object{"type": "string", "description": "Additional error details"},
								"category":  object{"type": "string", "description": "Error category"},
								"timestamp": object{"type": "string", "format": "date-time"},
							},
							"required": []string{"code", "message", "timestamp"},
						},
					},
					"required": []string{"error"},
				},
			},
		},
	}
}
