// Package docs is generated by `swag init -g cmd/api/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/stores/{storeID}/billboards": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billboards"
                ],
                "summary": "List billboards",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/billboards.Billboard"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billboards"
                ],
                "summary": "Create a billboard",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Billboard",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.BillboardPayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/billboards.Billboard"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/billboards/{billboardID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billboards"
                ],
                "summary": "Get a billboard",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Billboard ID",
                        "name": "billboardID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/billboards.Billboard"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Replacing the image removes the previous one from the CDN.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "billboards"
                ],
                "summary": "Update a billboard",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Billboard ID",
                        "name": "billboardID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Billboard",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.BillboardPayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/billboards.Billboard"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "billboards"
                ],
                "summary": "Delete a billboard",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Billboard ID",
                        "name": "billboardID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    },
                    "409": {
                        "description": "Used by categories",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/categories": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Creates a category in the store. The billboard must belong to the same store.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Create a category",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Category",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.CategoryPayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/categories.Category"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {}
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/categories.Category"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Store id is required",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/categories/{categoryID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Get a category",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Category ID",
                        "name": "categoryID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/categories.Category"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Update a category",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Category ID",
                        "name": "categoryID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Category",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.CategoryPayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/categories.Category"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "categories"
                ],
                "summary": "Delete a category",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Category ID",
                        "name": "categoryID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    },
                    "409": {
                        "description": "Used by products",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/checkout": {
            "post": {
                "description": "Creates an unpaid order for the requested variations and opens a Stripe Checkout session.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "checkout"
                ],
                "summary": "Start a checkout",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Cart",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/orders.CheckoutInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/main.CheckoutResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "409": {
                        "description": "Not enough stock",
                        "schema": {}
                    },
                    "503": {
                        "description": "Payments not configured",
                        "schema": {}
                    }
                }
            }
        },
        "/webhooks/stripe": {
            "post": {
                "description": "Verifies the Stripe-Signature header. Orders are marked paid once Stripe reports the payment as paid\n(checkout.session.completed with payment_status paid, or checkout.session.async_payment_succeeded).\nDelayed payments flag the order as awaiting payment until they settle or fail.",
                "consumes": [
                    "application/json"
                ],
                "tags": [
                    "checkout"
                ],
                "summary": "Stripe webhook",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid signature",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/colors": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "colors"
                ],
                "summary": "Create a color",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Color",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.ColorPayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/colors.Color"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "colors"
                ],
                "summary": "List colors",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/colors.Color"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/stores/{storeID}/colors/{colorID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "colors"
                ],
                "summary": "Get a color",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Color ID",
                        "name": "colorID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/colors.Color"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "colors"
                ],
                "summary": "Update a color",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Color ID",
                        "name": "colorID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Color",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.ColorPayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/colors.Color"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "colors"
                ],
                "summary": "Delete a color",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Color ID",
                        "name": "colorID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Used by product variations",
                        "schema": {}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports service status, environment and version. Requires basic auth.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ops"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "object",
                                            "additionalProperties": {
                                                "type": "string"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/orders": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "List orders",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "boolean",
                        "description": "Paid filter",
                        "name": "is_paid",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Delivered filter",
                        "name": "delivered",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/main.OrderListResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/orders/{orderID}": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Get an order with its items",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "orderID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/orders.OrderDetail"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/orders/{orderID}/delivered": {
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Mark an order delivered or not delivered",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "orderID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Delivery state",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.DeliveredPayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/orders.Order"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/overview": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Revenue, sales count, stock count and monthly revenue for a year.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "overview"
                ],
                "summary": "Dashboard overview",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Year, defaults to the current one",
                        "name": "year",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/overview.Overview"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/products": {
            "get": {
                "description": "Archived products are only listed for the store owner with include_archived=true.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "products"
                ],
                "summary": "List products",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Category ID",
                        "name": "category_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Color ID",
                        "name": "color_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Size ID",
                        "name": "size_id",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Only featured products",
                        "name": "is_featured",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Owner only",
                        "name": "include_archived",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/main.ProductListResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "products"
                ],
                "summary": "Create a product",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Product",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/products.ProductInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/products.ProductDetail"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/products/{productID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "products"
                ],
                "summary": "Get a product",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Product ID",
                        "name": "productID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/products.ProductDetail"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Replaces the images and reconciles the variations. Variations referenced by undelivered orders cannot be removed; such a request fails with 409 Conflict where older clients saw 400 with code P2014.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "products"
                ],
                "summary": "Update a product",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Product ID",
                        "name": "productID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Product",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.ProductUpdatePayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/products.ProductDetail"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    },
                    "409": {
                        "description": "Variation used by an undelivered order (formerly 400 P2014)",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "products"
                ],
                "summary": "Delete a product",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Product ID",
                        "name": "productID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    },
                    "409": {
                        "description": "Variation used by an undelivered order",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/sizes": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sizes"
                ],
                "summary": "Create a size",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Size",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.SizePayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/sizes.Size"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sizes"
                ],
                "summary": "List sizes",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/sizes.Size"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/stores/{storeID}/sizes/{sizeID}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sizes"
                ],
                "summary": "Get a size",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Size ID",
                        "name": "sizeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/sizes.Size"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sizes"
                ],
                "summary": "Update a size",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Size ID",
                        "name": "sizeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Size",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.SizePayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/sizes.Size"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "sizes"
                ],
                "summary": "Delete a size",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Size ID",
                        "name": "sizeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Used by product variations",
                        "schema": {}
                    }
                }
            }
        },
        "/stores": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Creates a store owned by the authenticated user.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stores"
                ],
                "summary": "Create a store",
                "parameters": [
                    {
                        "description": "Store",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.StorePayload"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/stores.Store"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {}
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stores"
                ],
                "summary": "List my stores",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/stores.Store"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stores"
                ],
                "summary": "Get a store",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/stores.Store"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    }
                }
            },
            "patch": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stores"
                ],
                "summary": "Rename a store",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Store",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/main.StorePayload"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/stores.Store"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Removes the store with its whole catalog. Refused while paid orders are waiting for delivery.",
                "tags": [
                    "stores"
                ],
                "summary": "Delete a store",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {}
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {}
                    }
                }
            }
        },
        "/stores/{storeID}/uploads": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Stores a JPEG, PNG or WebP image of at most 8 MB in the store's media folder.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "uploads"
                ],
                "summary": "Upload an image",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Image",
                        "name": "image",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/main.envelope"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/media.Asset"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {}
                    }
                }
            }
        }
    },
    "definitions": {
        "billboards.Billboard": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "label": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "image_public_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "categories.Category": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "billboard_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "billboard_label": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "colors.Color": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                },
                "value": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "main.BillboardPayload": {
            "type": "object",
            "required": [
                "image_public_id",
                "image_url",
                "label"
            ],
            "properties": {
                "label": {
                    "type": "string",
                    "example": "Summer sale",
                    "minLength": 1,
                    "maxLength": 100
                },
                "image_url": {
                    "type": "string"
                },
                "image_public_id": {
                    "type": "string",
                    "maxLength": 255
                }
            }
        },
        "main.CategoryPayload": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Shoes",
                    "maxLength": 100
                },
                "billboard_id": {
                    "type": "string",
                    "example": "7b0c5b1e-3c55-4f6e-9a57-7f2f8c2f1c11"
                }
            }
        },
        "main.CheckoutResponse": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "order_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "code": {
                    "type": "string"
                }
            }
        },
        "main.ColorPayload": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Navy",
                    "maxLength": 50
                },
                "value": {
                    "type": "string",
                    "example": "#1F2A44"
                }
            }
        },
        "main.DeliveredPayload": {
            "type": "object",
            "required": [
                "delivered"
            ],
            "properties": {
                "delivered": {
                    "type": "boolean"
                }
            }
        },
        "main.OrderListResponse": {
            "type": "object",
            "properties": {
                "orders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/orders.Order"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/params.Pagination"
                }
            }
        },
        "main.ProductListResponse": {
            "type": "object",
            "properties": {
                "products": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.ProductCard"
                    }
                },
                "pagination": {
                    "$ref": "#/definitions/params.Pagination"
                }
            }
        },
        "main.ProductUpdatePayload": {
            "type": "object",
            "properties": {
                "product": {
                    "$ref": "#/definitions/products.ProductInput"
                },
                "deleted_images": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.ImageInput"
                    }
                }
            }
        },
        "main.SizePayload": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Large",
                    "maxLength": 50
                },
                "value": {
                    "type": "string",
                    "example": "L",
                    "maxLength": 20
                }
            }
        },
        "main.StorePayload": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "example": "Main street shop",
                    "minLength": 1,
                    "maxLength": 100
                }
            }
        },
        "main.envelope": {
            "type": "object",
            "properties": {
                "data": {}
            }
        },
        "media.Asset": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "public_id": {
                    "type": "string"
                }
            }
        },
        "orders.CheckoutInput": {
            "type": "object",
            "required": [
                "items"
            ],
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/orders.CheckoutLine"
                    }
                }
            }
        },
        "orders.CheckoutLine": {
            "type": "object",
            "required": [
                "variation_id"
            ],
            "properties": {
                "variation_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "quantity": {
                    "type": "integer"
                }
            }
        },
        "orders.Order": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "code": {
                    "type": "string"
                },
                "is_paid": {
                    "type": "boolean"
                },
                "awaiting_payment": {
                    "type": "boolean"
                },
                "delivered": {
                    "type": "boolean"
                },
                "phone": {
                    "type": "string"
                },
                "address": {
                    "type": "string"
                },
                "total_cents": {
                    "type": "integer"
                },
                "item_count": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "orders.OrderDetail": {
            "type": "object",
            "properties": {
                "order": {
                    "$ref": "#/definitions/orders.Order"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/orders.OrderItem"
                    }
                }
            }
        },
        "orders.OrderItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "order_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "product_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "product_variation_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "product_name": {
                    "type": "string"
                },
                "size": {
                    "type": "string"
                },
                "color": {
                    "type": "string"
                },
                "quantity": {
                    "type": "integer"
                },
                "unit_price_cents": {
                    "type": "integer"
                },
                "total_price_cents": {
                    "type": "integer"
                }
            }
        },
        "overview.MonthRevenue": {
            "type": "object",
            "properties": {
                "month": {
                    "type": "string"
                },
                "revenue_cents": {
                    "type": "integer"
                }
            }
        },
        "overview.Overview": {
            "type": "object",
            "properties": {
                "total_revenue_cents": {
                    "type": "integer"
                },
                "sales_count": {
                    "type": "integer"
                },
                "stock_count": {
                    "type": "integer"
                },
                "monthly_revenue": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/overview.MonthRevenue"
                    }
                }
            }
        },
        "params.Pagination": {
            "type": "object",
            "properties": {
                "limit": {
                    "type": "integer"
                },
                "offset": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                },
                "has_next": {
                    "type": "boolean"
                },
                "has_prev": {
                    "type": "boolean"
                }
            }
        },
        "products.CategoryRef": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "products.Image": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "product_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "url": {
                    "type": "string"
                },
                "public_id": {
                    "type": "string"
                },
                "position": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "products.ImageInput": {
            "type": "object",
            "required": [
                "public_id",
                "url"
            ],
            "properties": {
                "url": {
                    "type": "string"
                },
                "public_id": {
                    "type": "string",
                    "maxLength": 255
                }
            }
        },
        "products.Option": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                },
                "value": {
                    "type": "string"
                }
            }
        },
        "products.ProductCard": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "category_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price_cents": {
                    "type": "integer"
                },
                "is_featured": {
                    "type": "boolean"
                },
                "is_archived": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                },
                "category_name": {
                    "type": "string"
                },
                "image_url": {
                    "type": "string"
                },
                "stock": {
                    "type": "integer"
                }
            }
        },
        "products.ProductDetail": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "category_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "price_cents": {
                    "type": "integer"
                },
                "is_featured": {
                    "type": "boolean"
                },
                "is_archived": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                },
                "category": {
                    "$ref": "#/definitions/products.CategoryRef"
                },
                "images": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.Image"
                    }
                },
                "variations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.Variation"
                    }
                }
            }
        },
        "products.ProductInput": {
            "type": "object",
            "required": [
                "category_id",
                "images",
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string",
                    "minLength": 1,
                    "maxLength": 200
                },
                "description": {
                    "type": "string",
                    "maxLength": 5000
                },
                "price_cents": {
                    "type": "integer"
                },
                "category_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "is_featured": {
                    "type": "boolean"
                },
                "is_archived": {
                    "type": "boolean"
                },
                "images": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.ImageInput"
                    }
                },
                "variations": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/products.VariationInput"
                    }
                }
            }
        },
        "products.Variation": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "product_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "size_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "color_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "quantity": {
                    "type": "integer"
                },
                "size": {
                    "$ref": "#/definitions/products.Option"
                },
                "color": {
                    "$ref": "#/definitions/products.Option"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "products.VariationInput": {
            "type": "object",
            "required": [
                "color_id",
                "size_id"
            ],
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "size_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "color_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "quantity": {
                    "type": "integer"
                }
            }
        },
        "sizes.Size": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "store_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "name": {
                    "type": "string"
                },
                "value": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "stores.Store": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "user_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Store Admin API",
	Description:      "Back office API for store owners: catalog, orders and storefront checkout.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
