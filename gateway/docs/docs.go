// Package docs registers the storefront OpenAPI document served under
// /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/products": {
            "get": {
                "summary": "List products",
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products/{id}": {
            "get": {
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/products/popular": {
            "get": {"summary": "List popular products", "responses": {"200": {"description": "OK"}}}
        },
        "/products/{id}/configure": {
            "get": {
                "summary": "Starting configuration of a product with the session's saved customizations",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/categories": {
            "get": {"summary": "Product counts per category", "responses": {"200": {"description": "OK"}}}
        },
        "/stores": {
            "get": {"summary": "List pickup stores", "responses": {"200": {"description": "OK"}}}
        },
        "/cart": {
            "get": {"summary": "Get the session cart", "responses": {"200": {"description": "OK"}}},
            "delete": {"summary": "Empty the cart", "responses": {"200": {"description": "OK"}}}
        },
        "/cart/lines": {
            "post": {
                "summary": "Add a configured product to the cart",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/cart/lines/{id}": {
            "put": {
                "summary": "Change a line quantity; 0 removes the line",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "summary": "Remove a line",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/orders": {
            "get": {"summary": "List orders, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {
                "summary": "Place an order from the cart",
                "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Checkout already in progress"},
                    "422": {"description": "Cart is empty"}
                }
            }
        },
        "/orders/export": {
            "get": {
                "summary": "Download order history as XLSX",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/orders/{id}": {
            "get": {
                "summary": "Get an order",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/orders/{id}/status": {
            "put": {
                "summary": "Advance or cancel an order",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Transition not allowed"}}
            }
        },
        "/favorites": {
            "get": {"summary": "List favorite products", "responses": {"200": {"description": "OK"}}}
        },
        "/favorites/{productId}/toggle": {
            "post": {
                "summary": "Toggle a favorite",
                "parameters": [{"type": "string", "name": "productId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/preferences": {
            "get": {"summary": "Get preferences", "responses": {"200": {"description": "OK"}}},
            "patch": {"summary": "Merge a preferences patch", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "BrewBuddy Storefront API",
	Description:      "Menu, cart, checkout and order history. Requests are scoped by the X-Session-ID header.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
