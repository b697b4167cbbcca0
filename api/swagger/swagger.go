package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StudyBloom API",
        "description": "Personal study organization API: subjects, activities, calendar and kanban board",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Stub session issuance"},
        {"name": "Overview", "description": "Dashboard buckets"},
        {"name": "Subjects", "description": "Subjects with grades, absences and notes"},
        {"name": "Activities", "description": "Study activities"},
        {"name": "Calendar", "description": "Month grid with national holidays"},
        {"name": "Board", "description": "Kanban board grouped by subject"},
        {"name": "Reports", "description": "Downloadable documents"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/overview": {
            "get": {
                "tags": ["Overview"],
                "summary": "Get the dashboard buckets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/{year}/{month}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get a month grid",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/{year}/refresh": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Refresh cached holidays",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board": {
            "get": {
                "tags": ["Board"],
                "summary": "Get the kanban board",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/move": {
            "post": {
                "tags": ["Board"],
                "summary": "Apply a drag gesture",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/board/activities/{id}/cycle": {
            "post": {
                "tags": ["Board"],
                "summary": "Advance an activity's status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject and its activities",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a subject report PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/grades": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Add grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddGradeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/grades/{gradeId}": {
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "gradeId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/absences": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Record absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddAbsenceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/absences/{absenceId}": {
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "absenceId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/notes": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Add note",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddNoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{id}/notes/{noteId}": {
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove note",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "noteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List activities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Activities"],
                "summary": "Create activity",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateActivityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download all activities as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/activities/{id}": {
            "get": {
                "tags": ["Activities"],
                "summary": "Get activity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Activities"],
                "summary": "Update activity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateActivityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "No Content"}
                }
            },
            "delete": {
                "tags": ["Activities"],
                "summary": "Delete activity",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "Subject": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "professor": {"type": "string"},
                "professor_email": {"type": "string"},
                "grades": {"type": "array", "items": {"$ref": "#/definitions/Grade"}},
                "absences": {"type": "array", "items": {"$ref": "#/definitions/Absence"}},
                "notes": {"type": "array", "items": {"$ref": "#/definitions/Note"}}
            }
        },
        "Grade": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "value": {"type": "number"},
                "description": {"type": "string"}
            }
        },
        "Absence": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "string", "format": "date"}
            }
        },
        "Note": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "Activity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["exam", "assignment", "list", "study"]},
                "status": {"type": "string", "enum": ["todo", "in_progress", "done"]},
                "subject_id": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["name", "email", "password"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "professor": {"type": "string"},
                "professor_email": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"},
                "professor": {"type": "string"},
                "professor_email": {"type": "string"}
            }
        },
        "AddGradeRequest": {
            "type": "object",
            "properties": {
                "value": {"type": "number"},
                "description": {"type": "string"}
            }
        },
        "AddAbsenceRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "format": "date"}
            },
            "required": ["date"]
        },
        "AddNoteRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"}
            },
            "required": ["content"]
        },
        "CreateActivityRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string", "enum": ["exam", "assignment", "list", "study"]},
                "status": {"type": "string", "enum": ["todo", "in_progress", "done"]},
                "subject_id": {"type": "string"}
            },
            "required": ["title", "type", "subject_id"]
        },
        "UpdateActivityRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "subject_id": {"type": "string"}
            }
        },
        "MoveRequest": {
            "type": "object",
            "properties": {
                "activity_id": {"type": "string"},
                "source_subject_id": {"type": "string"},
                "target_subject_id": {"type": "string"},
                "target_index": {"type": "integer"}
            },
            "required": ["activity_id"]
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
