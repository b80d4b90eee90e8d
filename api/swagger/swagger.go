package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "QA Dashboard API",
        "description": "Call-center QA evaluation tracking: scoring records, dashboards, live updates and exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Reviewer sign-in and tokens"},
        {"name": "Records", "description": "QA evaluations"},
        {"name": "Dashboard", "description": "Summaries, charts and the guideline catalog"},
        {"name": "Exports", "description": "Spreadsheet, PDF and CSV downloads"},
        {"name": "Observability", "description": "Runtime statistics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Login failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current reviewer",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Guideline catalog",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "agent", "in": "query", "type": "string"},
                    {"name": "center", "in": "query", "type": "string", "enum": ["Teleperformance", "Buwelo", "WNS", "Concentrix"]},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "qaType", "in": "query", "type": "string", "enum": ["CS", "Groups"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "All results",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List evaluations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "agent", "in": "query", "type": "string"},
                    {"name": "center", "in": "query", "type": "string", "enum": ["Teleperformance", "Buwelo", "WNS", "Concentrix"]},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "qaType", "in": "query", "type": "string", "enum": ["CS", "Groups"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Records"],
                "summary": "Submit evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QaRecordInput"}}
                ],
                "responses": {
                    "201": {"description": "Saved successfully!", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/records/stream": {
            "get": {
                "tags": ["Records"],
                "summary": "Live record stream (server-sent events)",
                "produces": ["text/event-stream"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "access_token", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "Event stream"}}
            }
        },
        "/records/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Get evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Records"],
                "summary": "Edit evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QaRecordInput"}}
                ],
                "responses": {
                    "200": {"description": "Entry updated successfully!", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the submitter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Records"],
                "summary": "Delete evaluation",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Entry deleted successfully!", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the submitter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{format}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download evaluations",
                "produces": ["application/octet-stream"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "path", "required": true, "type": "string", "enum": ["xlsx", "pdf", "csv"]},
                    {"name": "agent", "in": "query", "type": "string"},
                    {"name": "center", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"},
                    {"name": "qaType", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Metrics summary",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "TokenRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            },
            "required": ["refreshToken"]
        },
        "QaRecordInput": {
            "type": "object",
            "properties": {
                "agent": {"type": "string"},
                "qaType": {"type": "string", "enum": ["CS", "Groups"]},
                "date": {"type": "string", "format": "date"},
                "center": {"type": "string", "enum": ["Teleperformance", "Buwelo", "WNS", "Concentrix"]},
                "score": {"type": "integer", "minimum": 0, "maximum": 100},
                "markdowns": {"type": "array", "items": {"type": "string"}},
                "callId": {"type": "string"},
                "requestId": {"type": "string"},
                "itinerary": {"type": "string"},
                "callLength": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
