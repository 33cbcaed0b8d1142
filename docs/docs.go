// Package docs registers the OpenAPI document served under /swagger.
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "OK"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a customer account", "responses": {"201": {"description": "Created"}, "409": {"description": "Email already exists"}}}},
        "/catalog/templates": {"get": {"tags": ["catalog"], "summary": "List service templates", "responses": {"200": {"description": "OK"}}}},
        "/catalog/templates/{id}": {"get": {"tags": ["catalog"], "summary": "Get a service template", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Template not found"}}}},
        "/catalog/resolve": {"get": {"tags": ["catalog"], "summary": "Resolve a product title to a template", "parameters": [{"name": "title", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "No template matches"}}}},
        "/catalog/requirements": {"post": {"tags": ["catalog"], "summary": "Required documents for cart items", "responses": {"200": {"description": "OK"}}}},
        "/orders": {"post": {"tags": ["orders"], "summary": "Create an order", "responses": {"201": {"description": "Created"}, "400": {"description": "Empty cart or invalid payment method"}}}},
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "Get an order", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Order not found"}}}},
        "/orders/{id}/progress": {"get": {"tags": ["orders"], "summary": "Document checklist of an order", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/checkout": {"post": {"tags": ["orders"], "summary": "Finish checkout", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "422": {"description": "Documents missing"}}}},
        "/orders/{id}/documents": {"get": {"tags": ["documents"], "summary": "Upload records of an order", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/items/{itemId}/documents": {
            "post": {"tags": ["documents"], "summary": "Upload a required document", "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "itemId", "in": "path", "required": true, "type": "string"}, {"name": "document", "in": "formData", "required": true, "type": "string"}, {"name": "file", "in": "formData", "required": true, "type": "file"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Rejected"}, "413": {"description": "File too large"}, "502": {"description": "Storage failure"}}},
            "delete": {"tags": ["documents"], "summary": "Remove an uploaded document", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "itemId", "in": "path", "required": true, "type": "string"}, {"name": "document", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/users/me": {"get": {"tags": ["users"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users/me/orders": {"get": {"tags": ["orders"], "summary": "Orders of the signed-in customer", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/users": {"post": {"tags": ["users"], "summary": "Create a user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/users/{id}": {"get": {"tags": ["users"], "summary": "Get a user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/orders": {"get": {"tags": ["admin"], "summary": "List orders", "security": [{"BearerAuth": []}], "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "offset", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}": {"get": {"tags": ["admin"], "summary": "Order details with document checklist", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}/status": {"put": {"tags": ["admin"], "summary": "Change order status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}}}},
        "/admin/orders/{id}/items/{itemId}/documents/download": {"get": {"tags": ["admin"], "summary": "Presigned download URL of an uploaded document", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "itemId", "in": "path", "required": true, "type": "string"}, {"name": "document", "in": "query", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Document not uploaded"}}}},
        "/admin/sales": {"get": {"tags": ["admin"], "summary": "Sales summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/sales/export/csv": {"get": {"tags": ["admin"], "summary": "Export orders as CSV", "produces": ["text/csv"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/sales/export/xlsx": {"get": {"tags": ["admin"], "summary": "Export orders as an Excel workbook", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Juridico API",
	Description:      "Legal services storefront: service catalog, order checkout, required document uploads and back-office sales.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
