// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/v1/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/profile": {
            "get": {"tags": ["auth"], "summary": "Current user profile", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/jobs": {
            "get": {"tags": ["jobs"], "summary": "List jobs visible to the caller", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["jobs"], "summary": "Create a job", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/jobs/{id}": {
            "get": {"tags": ["jobs"], "summary": "Get a job", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["jobs"], "summary": "Update a job", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["jobs"], "summary": "Delete a job with its applications", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/v1/jobs/{id}/activate": {"post": {"tags": ["jobs"], "summary": "Publish a job", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/jobs/{id}/pause": {"post": {"tags": ["jobs"], "summary": "Pause a job", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/jobs/{id}/close": {"post": {"tags": ["jobs"], "summary": "Close a job", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/jobs/{id}/can_apply": {"get": {"tags": ["jobs"], "summary": "Whether the caller may apply to the job now", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/jobs/{id}/applications": {
            "get": {"tags": ["applications"], "summary": "List a job's applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["applications"], "summary": "Apply to a job", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/job_applications": {"get": {"tags": ["applications"], "summary": "List applications visible to the caller", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_applications/{id}": {
            "get": {"tags": ["applications"], "summary": "Get an application", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["applications"], "summary": "Update cover letter or status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["applications"], "summary": "Withdraw an application", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/v1/job_applications/{id}/update_status": {"patch": {"tags": ["applications"], "summary": "Move an application through the hiring pipeline", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_applications/{id}/withdraw": {"post": {"tags": ["applications"], "summary": "Withdraw an application", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_applications/{id}/history": {"get": {"tags": ["applications"], "summary": "Status history of an application", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/companies": {"get": {"tags": ["companies"], "summary": "List companies", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/companies/{id}": {
            "get": {"tags": ["companies"], "summary": "Get a company with its counters", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["companies"], "summary": "Update a company profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/companies/{id}/jobs": {"get": {"tags": ["companies"], "summary": "List a company's jobs", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/companies/{id}/applications": {"get": {"tags": ["companies"], "summary": "List applications to a company's jobs", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_seekers": {"get": {"tags": ["job_seekers"], "summary": "List job seekers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_seekers/{id}": {
            "get": {"tags": ["job_seekers"], "summary": "Get a job seeker", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["job_seekers"], "summary": "Update a job seeker profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/job_seekers/{id}/applications": {"get": {"tags": ["job_seekers"], "summary": "List a job seeker's applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/job_seekers/{id}/skills": {
            "get": {"tags": ["job_seekers"], "summary": "List a job seeker's skills", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["job_seekers"], "summary": "Add a skill", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/job_seekers/{id}/skills/{skill_id}": {"delete": {"tags": ["job_seekers"], "summary": "Remove a skill", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/api/v1/categories": {"get": {"tags": ["catalog"], "summary": "List categories", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/categories/{id}": {"get": {"tags": ["catalog"], "summary": "Get a category", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/categories/{id}/skills": {"get": {"tags": ["catalog"], "summary": "List the skills of a category", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/categories/{id}/skills/{skill_id}": {"get": {"tags": ["catalog"], "summary": "Get a skill of a category", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/search/jobs": {"get": {"tags": ["search"], "summary": "Full-text job search", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/v1/search/companies": {"get": {"tags": ["search"], "summary": "Search companies", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/search/job_seekers": {"get": {"tags": ["search"], "summary": "Search job seekers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["ops"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["ops"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Job Board API",
	Description:      "Job postings, applications and candidate profiles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
