// Package docs registers the OpenAPI description served under /swagger.
//
// Regenerate with: swag init -g internal/api/router.go -o internal/api/docs
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Login form",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to /profile with the session cookie set"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/signup": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Signup form",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to /login"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"302": {"description": "Redirect to /login"}}
            }
        },
        "/profile": {
            "get": {
                "produces": ["text/html"],
                "tags": ["users"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "Redirect to /login without a session"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/admin": {
            "get": {
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "Admin panel",
                "parameters": [
                    {"type": "string", "description": "Flash message", "name": "success", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "Redirect to /login without a session"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/admin-roles": {
            "get": {
                "tags": ["admin"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "Target username", "name": "username", "in": "query", "required": true},
                    {"type": "string", "description": "upgrade or downgrade", "name": "action", "in": "query", "required": true},
                    {"type": "string", "description": "Anti-forgery token when the token guard is active", "name": "csrf_token", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Redirect back to the admin page"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/update": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["admin"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "Target username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "upgrade or downgrade", "name": "action", "in": "formData", "required": true},
                    {"type": "string", "description": "Anti-forgery token when the token guard is active", "name": "csrf_token", "in": "formData"}
                ],
                "responses": {
                    "302": {"description": "Redirect back to the admin page"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "authgate",
	Description:      "Session-based login with user and admin roles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
