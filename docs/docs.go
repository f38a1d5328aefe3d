// Package docs registers the OpenAPI spec served at /docs/doc.json.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Statline"},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/tools/resolve-player": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "Resolve a player name",
                "description": "Resolves a free-text player name against the identity tables, returning one canonical identity or a ranked candidate list.",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/tools/player-stats": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tools"],
                "summary": "Get player game stats",
                "description": "Resolves the player name, retrieves game rows with table fallback, and attaches opponent context and an authoritative summary.",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Chat turn",
                "description": "Runs one conversational turn: model draft, optional tool call, grounded follow-up.",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/current-week": {
            "get": {
                "produces": ["application/json"],
                "tags": ["week"],
                "summary": "Get current week",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["week"],
                "summary": "Set current week",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/trends/hot-cold": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trends"],
                "summary": "Get hot and cold players",
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/leaders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trends"],
                "summary": "Get weekly leaders",
                "parameters": [
                    {"type": "string", "name": "position", "in": "query"},
                    {"type": "integer", "name": "week", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/defense/rankings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trends"],
                "summary": "Get defense rankings",
                "parameters": [
                    {"type": "string", "name": "position", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/debug/players": {
            "get": {
                "produces": ["application/json"],
                "tags": ["debug"],
                "summary": "Debug player search",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Statline API",
	Description:      "NFL stats API serving player game logs with table-fallback retrieval, name resolution, trend pages, and a tool-grounded chat endpoint backed by a local Ollama model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
