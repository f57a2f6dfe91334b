package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Share2Teach API",
        "description": "Document sharing for educators",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "JWTToken": {
            "type": "apiKey",
            "in": "header",
            "name": "jwt_token"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Operations"
                ],
                "summary": "Liveness",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Operations"
                ],
                "summary": "Readiness",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is down"
                    }
                }
            }
        },
        "/register": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Register account",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RegisterRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Token"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "401": {
                        "description": "User already exists"
                    }
                }
            }
        },
        "/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Authenticate user",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Token"
                    },
                    "401": {
                        "description": "Invalid Credential"
                    }
                }
            }
        },
        "/logout": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Invalidate every outstanding token",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Logged out"
                    },
                    "403": {
                        "description": "Authorization denied"
                    }
                }
            }
        },
        "/forgot-password": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Email a reset link",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ForgotPasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Sent"
                    },
                    "404": {
                        "description": "User not found"
                    }
                }
            }
        },
        "/reset-password/{token}": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Reset password",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "token",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ResetPasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Reset"
                    },
                    "400": {
                        "description": "Invalid or expired token"
                    }
                }
            }
        },
        "/admin/assign-role": {
            "put": {
                "tags": [
                    "Administration"
                ],
                "summary": "Assign role",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignRoleRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated"
                    },
                    "403": {
                        "description": "Access denied"
                    },
                    "404": {
                        "description": "User not found"
                    }
                }
            }
        },
        "/active_user": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Current user",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/documents": {
            "get": {
                "tags": [
                    "Documents"
                ],
                "summary": "List documents",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "Documents"
                ],
                "summary": "Upload document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "formData",
                        "name": "file",
                        "required": true,
                        "type": "file"
                    },
                    {
                        "in": "formData",
                        "name": "file_name",
                        "type": "string"
                    },
                    {
                        "in": "formData",
                        "name": "subject",
                        "type": "integer"
                    },
                    {
                        "in": "formData",
                        "name": "grade",
                        "type": "integer"
                    },
                    {
                        "in": "formData",
                        "name": "keywords",
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored"
                    },
                    "400": {
                        "description": "Invalid file"
                    },
                    "403": {
                        "description": "Access denied"
                    },
                    "429": {
                        "description": "Rate limited"
                    }
                },
                "consumes": [
                    "multipart/form-data"
                ]
            }
        },
        "/documents/{id}/moderation-history": {
            "get": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Moderation history of a document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Moderation records, newest first"
                    },
                    "403": {
                        "description": "Access denied"
                    }
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "tags": [
                    "Documents"
                ],
                "summary": "Get document with keywords",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Document"
                    },
                    "404": {
                        "description": "File not found"
                    }
                }
            },
            "put": {
                "tags": [
                    "Documents"
                ],
                "summary": "Update document metadata",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateDocumentRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated"
                    },
                    "403": {
                        "description": "Access denied"
                    },
                    "404": {
                        "description": "Document not found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Documents"
                ],
                "summary": "Delete document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Deleted"
                    },
                    "403": {
                        "description": "Access denied"
                    },
                    "404": {
                        "description": "Document not found"
                    }
                }
            }
        },
        "/search-documents": {
            "get": {
                "tags": [
                    "Documents"
                ],
                "summary": "Search documents",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "file_name",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "subject",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "grade",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "rating",
                        "type": "number"
                    },
                    {
                        "in": "query",
                        "name": "uploaded_by",
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "status",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "keywords",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Matches"
                    },
                    "400": {
                        "description": "Invalid search parameters"
                    }
                }
            }
        },
        "/convert-to-pdf/{file_id}": {
            "get": {
                "tags": [
                    "Documents"
                ],
                "summary": "Convert document to PDF",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "file_id",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Converted"
                    },
                    "400": {
                        "description": "Already PDF"
                    },
                    "404": {
                        "description": "File not found"
                    }
                }
            }
        },
        "/rate-file": {
            "post": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Rate a document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RateFileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Average rating"
                    },
                    "400": {
                        "description": "Invalid rating"
                    },
                    "404": {
                        "description": "File not found"
                    }
                }
            }
        },
        "/moderate-document": {
            "post": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Approve or reject a document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ModerateDocumentRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Moderated"
                    },
                    "400": {
                        "description": "Invalid action"
                    },
                    "404": {
                        "description": "File not found"
                    }
                }
            }
        },
        "/report-document": {
            "post": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Report a document",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReportDocumentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Reported"
                    },
                    "404": {
                        "description": "File not found"
                    }
                }
            }
        },
        "/reports": {
            "get": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Pending reports",
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/moderate-report": {
            "post": {
                "tags": [
                    "Workflow"
                ],
                "summary": "Resolve or reject a report",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ModerateReportRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Settled"
                    },
                    "400": {
                        "description": "Invalid action"
                    },
                    "404": {
                        "description": "Report not found"
                    }
                }
            }
        },
        "/activity-logs": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Activity log",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/analytics": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Page visits",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string"
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/faq": {
            "post": {
                "tags": [
                    "FAQ"
                ],
                "summary": "Ask a question",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateFAQRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created"
                    }
                }
            }
        },
        "/faq_answer": {
            "post": {
                "tags": [
                    "FAQ"
                ],
                "summary": "Answer a question",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AnswerFAQRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "JWTToken": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Answered"
                    },
                    "404": {
                        "description": "FAQ not found"
                    }
                }
            }
        },
        "/faqs": {
            "get": {
                "tags": [
                    "FAQ"
                ],
                "summary": "List questions",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "Fname": {
                    "type": "string"
                },
                "Lname": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                }
            }
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "password": {
                    "type": "string"
                },
                "confirmPassword": {
                    "type": "string"
                }
            }
        },
        "AssignRoleRequest": {
            "type": "object",
            "properties": {
                "user_id": {
                    "type": "integer"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "UpdateDocumentRequest": {
            "type": "object",
            "properties": {
                "file_name": {
                    "type": "string"
                },
                "subject": {
                    "type": "integer"
                },
                "grade": {
                    "type": "integer"
                }
            }
        },
        "RateFileRequest": {
            "type": "object",
            "properties": {
                "file_id": {
                    "type": "integer"
                },
                "rating": {
                    "type": "integer"
                }
            }
        },
        "ModerateDocumentRequest": {
            "type": "object",
            "properties": {
                "file_id": {
                    "type": "integer"
                },
                "action": {
                    "type": "string"
                },
                "comments": {
                    "type": "string"
                }
            }
        },
        "ReportDocumentRequest": {
            "type": "object",
            "properties": {
                "file_id": {
                    "type": "integer"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "ModerateReportRequest": {
            "type": "object",
            "properties": {
                "report_id": {
                    "type": "integer"
                },
                "action": {
                    "type": "string"
                }
            }
        },
        "CreateFAQRequest": {
            "type": "object",
            "properties": {
                "question": {
                    "type": "string"
                }
            }
        },
        "AnswerFAQRequest": {
            "type": "object",
            "properties": {
                "faq_id": {
                    "type": "integer"
                },
                "answer": {
                    "type": "string"
                }
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "msg": {
                    "type": "string"
                }
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
