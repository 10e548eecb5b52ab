package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Enrollment API",
        "description": "Course enrollment intake, coupon pricing and payment links",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Enrollments", "description": "Public intake"},
        {"name": "Payments", "description": "Payment links and pricing previews"},
        {"name": "Catalog", "description": "Courses and coupons"},
        {"name": "Club", "description": "Interest list"},
        {"name": "Admin", "description": "Enrollment administration (bearer token)"}
    ],
    "paths": {
        "/inscricao": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Submit an enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/EnrollmentCreated"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown course", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/paymentlink": {
            "post": {
                "tags": ["Payments"],
                "summary": "Issue a payment link for an enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/PaymentLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentLink"}},
                    "400": {"description": "Invalid method or payload", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown enrollment", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Payment provider unavailable", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/pagamento-info": {
            "get": {
                "tags": ["Payments"],
                "summary": "Payment options for an enrollment",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "inscricaoId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing id", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/checa-cupom": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Check a coupon against a course",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "cupom", "type": "string", "required": true},
                    {"in": "query", "name": "curso", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing parameters", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/cursos": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses or fetch one by id",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown course", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/clube/interesse": {
            "post": {
                "tags": ["Club"],
                "summary": "Join the interest list",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "get": {
                "tags": ["Club"],
                "summary": "Check whether an email is on the interest list",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "email", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing email", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/isAssinatura": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Toggle the subscription intent of an enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/Error"}},
                    "403": {"description": "Course outside the subscription family", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown enrollment", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/admin/inscricoes": {
            "get": {
                "tags": ["Admin"],
                "summary": "List enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "curso", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/admin/inscricoes/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export enrollments as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]},
                    {"in": "query", "name": "curso", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/admin/inscricoes/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Enrollment detail",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Remove an enrollment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "EnrollmentRequest": {
            "type": "object",
            "required": ["nomeCompleto", "cpf", "email", "whatsapp", "curso", "aceitouTermos"],
            "properties": {
                "nomeCompleto": {"type": "string"},
                "cpf": {"type": "string"},
                "email": {"type": "string"},
                "whatsapp": {"type": "string"},
                "curso": {"type": "string"},
                "aceitouTermos": {"type": "boolean"},
                "sexo": {"type": "string"},
                "dataNascimento": {"type": "string"},
                "formacaoTI": {"type": "string"},
                "ondeEstuda": {"type": "string"},
                "comoSoube": {"type": "string"},
                "nomeAmigo": {"type": "string"},
                "cupom": {"type": "string"}
            }
        },
        "EnrollmentCreated": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message": {"type": "string"},
                "precoFinal": {"type": "string"},
                "precoFormatado": {"type": "string"}
            }
        },
        "PaymentLinkRequest": {
            "type": "object",
            "required": ["inscricaoId", "metodo"],
            "properties": {
                "inscricaoId": {"type": "string"},
                "metodo": {"type": "string", "enum": ["PIX", "CARD"]}
            }
        },
        "PaymentLink": {
            "type": "object",
            "properties": {
                "inscricaoId": {"type": "string"},
                "id": {"type": "string"},
                "url": {"type": "string"},
                "metodo": {"type": "string"},
                "valor": {"type": "string"},
                "parcelas": {"type": "integer"},
                "valorParcela": {"type": "string"},
                "vencimento": {"type": "string"}
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
