package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MindMate Planner API",
        "description": "Study plan synthesis service backed by a validated language model loop",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Planner", "description": "Study plan generation and retrieval"},
        {"name": "Datesheet", "description": "Exam datesheet image uploads"},
        {"name": "Chat", "description": "Wellness companion chat"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/studyplan": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate a validated study plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No valid plan within the attempt budget", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Language model unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/studyplan/latest": {
            "get": {
                "tags": ["Planner"],
                "summary": "Get the caller's most recent accepted plan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No plan cached"}
                }
            }
        },
        "/api/studyplan/export": {
            "get": {
                "tags": ["Planner"],
                "summary": "Export the latest plan as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "404": {"description": "No plan cached"}
                }
            }
        },
        "/api/datesheet": {
            "post": {
                "tags": ["Datesheet"],
                "summary": "Upload an exam datesheet image",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Datesheet"],
                "summary": "List uploaded datesheets, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Datesheet"],
                "summary": "Delete uploaded datesheets by stored name",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteDatesheetsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/chat": {
            "post": {
                "tags": ["Chat"],
                "summary": "Send a chat message to the wellness companion",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GeneratePlanRequest": {
            "type": "object",
            "properties": {
                "subjects": {
                    "type": "array",
                    "items": {"type": "string"},
                    "description": "Subject names or {name} objects"
                },
                "availability": {"$ref": "#/definitions/Availability"},
                "exams": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Exam"}
                },
                "exam_image": {"type": "string", "description": "Stored datesheet name to extract exams from"},
                "preferences": {"type": "object"}
            },
            "required": ["subjects", "availability"]
        },
        "Availability": {
            "type": "object",
            "properties": {
                "days": {"type": "integer", "minimum": 1},
                "daily_start": {"type": "string", "example": "09:00"},
                "daily_end": {"type": "string", "example": "21:30"},
                "start_date": {"type": "string", "example": "2025-03-10"},
                "max_hours_per_day": {"type": "number"}
            },
            "required": ["daily_start", "daily_end"]
        },
        "Exam": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "date": {"type": "string", "example": "2025-03-20"}
            }
        },
        "PlanItem": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "subjectName": {"type": "string"},
                "startISO": {"type": "string"},
                "endISO": {"type": "string"},
                "type": {"type": "string", "enum": ["study", "revision", "break"]}
            }
        },
        "StudyPlanResponse": {
            "type": "object",
            "properties": {
                "planId": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/PlanItem"}
                },
                "exams": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Exam"}
                },
                "availability": {"$ref": "#/definitions/Availability"},
                "preferences": {"type": "object"},
                "attempts": {"type": "integer"}
            }
        },
        "DeleteDatesheetsRequest": {
            "type": "object",
            "properties": {
                "files": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["files"]
        },
        "ChatRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            },
            "required": ["message"]
        },
        "ChatResponse": {
            "type": "object",
            "properties": {
                "reply": {"type": "string"},
                "source": {"type": "string", "enum": ["ai", "fallback"]}
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
