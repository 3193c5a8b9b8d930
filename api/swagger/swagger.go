package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Helpdesk Presence API",
        "description": "Staff presence and day planning for the helpdesk",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Presence", "description": "Day planning and the presence board"},
        {"name": "Presence Admin", "description": "Status and office catalog administration"},
        {"name": "Metrics", "description": "Operational counters"}
    ],
    "paths": {
        "/presence/days": {
            "post": {
                "tags": ["Presence"],
                "summary": "Replace the caller's plan for a day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlanDayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/presence/days/{date}": {
            "get": {
                "tags": ["Presence"],
                "summary": "Get the caller's segments for a local date",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string", "format": "date"},
                    {"name": "tz", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/presence/weeks/{startDate}": {
            "get": {
                "tags": ["Presence"],
                "summary": "Get seven days of the caller's presence",
                "parameters": [
                    {"name": "startDate", "in": "path", "required": true, "type": "string", "format": "date"},
                    {"name": "tz", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/presence/weeks/{startDate}/export": {
            "get": {
                "tags": ["Presence"],
                "summary": "Download the caller's week",
                "produces": ["text/csv", "application/pdf", "text/calendar"],
                "parameters": [
                    {"name": "startDate", "in": "path", "required": true, "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "ics"]},
                    {"name": "tz", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/presence/current": {
            "get": {
                "tags": ["Presence"],
                "summary": "Who is present right now",
                "parameters": [
                    {"name": "user_ids", "in": "query", "type": "string"},
                    {"name": "tz", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/presence/segments/{id}": {
            "delete": {
                "tags": ["Presence"],
                "summary": "Delete one of the caller's segments",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not the owner"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/presence/statuses": {
            "get": {
                "tags": ["Presence"],
                "summary": "List active status types",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/presence/offices": {
            "get": {
                "tags": ["Presence"],
                "summary": "List active office locations",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/statuses": {
            "get": {
                "tags": ["Presence Admin"],
                "summary": "List status types",
                "parameters": [{"name": "include_inactive", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Presence Admin"],
                "summary": "Create a status type",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertStatusTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Code already exists"}
                }
            }
        },
        "/admin/presence/statuses/{id}": {
            "put": {
                "tags": ["Presence Admin"],
                "summary": "Update a status type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertStatusTypeRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/statuses/{id}/active": {
            "patch": {
                "tags": ["Presence Admin"],
                "summary": "Activate or deactivate a status type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetActiveRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/offices": {
            "get": {
                "tags": ["Presence Admin"],
                "summary": "List office locations",
                "parameters": [{"name": "include_inactive", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Presence Admin"],
                "summary": "Create an office location",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertOfficeLocationRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/offices/{id}": {
            "put": {
                "tags": ["Presence Admin"],
                "summary": "Update an office location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertOfficeLocationRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/offices/{id}/active": {
            "patch": {
                "tags": ["Presence Admin"],
                "summary": "Activate or deactivate an office location",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetActiveRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/presence/registry/bust": {
            "post": {
                "tags": ["Presence Admin"],
                "summary": "Drop cached catalogs",
                "responses": {"204": {"description": "Busted"}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Operational counters as JSON",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "SegmentInput": {
            "type": "object",
            "required": ["statusCode", "from", "to"],
            "properties": {
                "statusCode": {"type": "string"},
                "officeCode": {"type": "string"},
                "from": {"type": "string", "example": "09:00"},
                "to": {"type": "string", "example": "17:00"},
                "notes": {"type": "string", "maxLength": 500}
            }
        },
        "PlanDayRequest": {
            "type": "object",
            "required": ["date", "segments"],
            "properties": {
                "date": {"type": "string", "format": "date"},
                "repeatUntil": {"type": "string", "format": "date"},
                "timezone": {"type": "string", "example": "America/Los_Angeles"},
                "segments": {"type": "array", "items": {"$ref": "#/definitions/SegmentInput"}}
            }
        },
        "UpsertStatusTypeRequest": {
            "type": "object",
            "required": ["code", "label", "category"],
            "properties": {
                "code": {"type": "string"},
                "label": {"type": "string"},
                "category": {"type": "string"},
                "requiresOffice": {"type": "boolean"},
                "color": {"type": "string"},
                "icon": {"type": "string"}
            }
        },
        "UpsertOfficeLocationRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "SetActiveRequest": {
            "type": "object",
            "required": ["active"],
            "properties": {
                "active": {"type": "boolean"}
            }
        },
        "FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
