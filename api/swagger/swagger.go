package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Internship Undertaking API",
        "description": "Internship submission, approval and undertaking generation for PSG Tech students.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Submissions", "description": "Internship submission lifecycle"},
        {"name": "Profile", "description": "Student profile and department selection"},
        {"name": "Overview", "description": "Admin reporting over accepted submissions"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/submissions": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit internship details",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "401": {"description": "Missing or non-student token"}
                }
            }
        },
        "/submissions/pending": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List the tutor's pending submissions",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/accepted-submissions/class": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List the tutor's accepted submissions with class names",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/{id}/decision": {
            "patch": {
                "tags": ["Submissions"],
                "summary": "Accept or decline a submission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the assigned tutor"},
                    "404": {"description": "Submission not found"},
                    "409": {"description": "Concurrent decision detected"}
                }
            }
        },
        "/submissions/me": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List the authenticated student's submissions",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/departments": {
            "get": {
                "tags": ["Profile"],
                "summary": "List departments for selection",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/me/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get the authenticated student's profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/me/select-department": {
            "post": {
                "tags": ["Profile"],
                "summary": "Select the student's department",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectDepartmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid department id"}
                }
            }
        },
        "/submissions/me/update-profile": {
            "patch": {
                "tags": ["Profile"],
                "summary": "Update the student's editable profile fields",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/admin/overview": {
            "get": {
                "tags": ["Overview"],
                "summary": "Accepted submissions grouped by department and class",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions/admin/overview/export": {
            "get": {
                "tags": ["Overview"],
                "summary": "Export the accepted overview as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/submissions/{id}/download-pdf": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Download the internship undertaking PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"},
                    "400": {"description": "Submission not found"}
                }
            }
        }
    },
    "definitions": {
        "CreateSubmissionRequest": {
            "type": "object",
            "required": ["company_name", "company_address", "role", "supervisor_name", "supervisor_email", "department_guide", "start_date", "end_date", "tutor_email"],
            "properties": {
                "company_name": {"type": "string"},
                "company_address": {"type": "string"},
                "role": {"type": "string"},
                "supervisor_name": {"type": "string"},
                "supervisor_email": {"type": "string"},
                "department_guide": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "stipend": {"type": "number"},
                "description": {"type": "string"},
                "pending_redo_courses": {"type": "string"},
                "pending_ra_courses": {"type": "string"},
                "pending_current_courses": {"type": "string"},
                "tutor_email": {"type": "string"}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["accepted", "declined"]},
                "remarks": {"type": "string"}
            }
        },
        "SelectDepartmentRequest": {
            "type": "object",
            "required": ["departmentId"],
            "properties": {
                "departmentId": {"type": "string"}
            }
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "rollNumber": {"type": "string"},
                "year": {"type": "integer"},
                "departmentId": {"type": "string"}
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
