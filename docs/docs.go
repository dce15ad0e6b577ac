// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/clubs/{clubID}/events": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List a club's events", "parameters": [{"type": "string", "name": "clubID", "in": "path", "required": true}, {"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create a club event", "parameters": [{"type": "string", "name": "clubID", "in": "path", "required": true}, {"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/clubs/{clubID}/events/{eventID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get an event", "parameters": [{"type": "string", "name": "clubID", "in": "path", "required": true}, {"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update an event", "parameters": [{"type": "string", "name": "clubID", "in": "path", "required": true}, {"type": "string", "name": "eventID", "in": "path", "required": true}, {"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event", "parameters": [{"type": "string", "name": "clubID", "in": "path", "required": true}, {"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/events/{eventID}/participation": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["participation"], "summary": "Get my participation", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["participation"], "summary": "Join an event", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "capacity_full"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["participation"], "summary": "Leave an event", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/events/{eventID}/participants": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["participation"], "summary": "List an event's participation records", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/channels/{channelID}/confirmation": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["confirmation"], "summary": "Get the confirmation snapshot", "parameters": [{"type": "string", "name": "channelID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["confirmation"], "summary": "Confirm an event's attendees", "parameters": [{"type": "string", "name": "channelID", "in": "path", "required": true}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ConfirmParticipantsRequest"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "controllers.CreateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "kind": {"type": "string", "enum": ["LIGHTNING", "REGULAR", "MT"]},
                "capacity": {"type": "integer"},
                "starts_at": {"type": "string", "format": "date-time"},
                "ends_at": {"type": "string", "format": "date-time"}
            }
        },
        "controllers.UpdateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "starts_at": {"type": "string", "format": "date-time"},
                "ends_at": {"type": "string", "format": "date-time"}
            }
        },
        "controllers.ConfirmParticipantsRequest": {
            "type": "object",
            "properties": {
                "user_ids": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Club Events API",
	Description:      "Club events, capacity-bounded participation and attendee confirmation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
