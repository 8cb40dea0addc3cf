// Package docs holds the OpenAPI description served at /swagger/*.
//
// It follows the layout `swag init` emits: a template, a swag.Spec holding
// the values substituted into it, and an init that registers it.
// Keep it in sync with the godoc annotations on the handlers.
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
        "/api/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["auth"],
                "summary": "Register an adopter account",
                "parameters": [
                    {"description": "nomUs, cognom1, cognom2, emailUs, clauPas", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UsuarioDTO"}}
                ],
                "responses": {
                    "200": {"description": "Usuario registrado exitosamente", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Check credentials and return the profile",
                "parameters": [
                    {"description": "Credentials", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "401": {"description": "Credenciales inválidas", "schema": {"type": "string"}}
                }
            }
        },
        "/api/animals": {
            "get": {
                "description": "Filters combine as species+location, species, location or none. especie=Exòtic selects every species except Gos and Gat. localitzacio matches the shelter's province or postal code.",
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "List animals available for adoption",
                "parameters": [
                    {"type": "string", "description": "Exact species, or Exòtic", "name": "especie", "in": "query"},
                    {"type": "string", "description": "Province or postal code of the shelter", "name": "localitzacio", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Animal"}}}
                }
            }
        },
        "/api/animals/adoptats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "List adopted animals",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Animal"}}}
                }
            }
        },
        "/api/animals/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Get one animal with its shelter",
                "parameters": [
                    {"type": "integer", "description": "Animal id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Animal"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/protectores": {
            "get": {
                "description": "The first parameter present wins: nomProt, adresa, codiPostal, localitat, provincia, longitud+latitud, emailProt. nomProt, coordinates and emailProt return a single object (404 when absent); the others return an array.",
                "produces": ["application/json"],
                "tags": ["protectores"],
                "summary": "Find shelters",
                "parameters": [
                    {"type": "string", "name": "nomProt", "in": "query"},
                    {"type": "string", "name": "adresa", "in": "query"},
                    {"type": "string", "name": "codiPostal", "in": "query"},
                    {"type": "string", "name": "localitat", "in": "query"},
                    {"type": "string", "name": "provincia", "in": "query"},
                    {"type": "number", "name": "longitud", "in": "query"},
                    {"type": "number", "name": "latitud", "in": "query"},
                    {"type": "string", "name": "emailProt", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Protectora"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/protectores/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["protectores"],
                "summary": "Get one shelter",
                "parameters": [
                    {"type": "integer", "description": "Shelter id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Protectora"}},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/usuarios": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["usuarios"],
                "summary": "List accounts (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.UsuarioDTO"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/usuarios/{id}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "description": "Callers may read their own account. ADMIN may read any.",
                "produces": ["application/json"],
                "tags": ["usuarios"],
                "summary": "Get one account",
                "parameters": [
                    {"type": "integer", "description": "Account id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "description": "Names are always replaced. emailUs is only checked when it changes. An empty clauPas keeps the current password. The role is never changed here.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["usuarios"],
                "summary": "Edit an account profile",
                "parameters": [
                    {"type": "integer", "description": "Account id", "name": "id", "in": "path", "required": true},
                    {"description": "Profile", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UsuarioDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/admin/animals": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List every animal",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Animal"}}}
                }
            },
            "post": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create an animal",
                "parameters": [
                    {"description": "Animal", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.Animal"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Animal"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/admin/animals/{id}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get one animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Animal"}},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace an animal",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"description": "Animal", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.Animal"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Animal"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            },
            "delete": {
                "security": [{"BasicAuth": []}],
                "tags": ["admin"],
                "summary": "Delete an animal",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "no content"},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/admin/protectores": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List every shelter",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Protectora"}}}
                }
            },
            "post": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create a shelter",
                "parameters": [
                    {"description": "Shelter", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.Protectora"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Protectora"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/admin/protectores/{id}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get one shelter",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Protectora"}},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace a shelter",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"description": "Shelter", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.Protectora"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Protectora"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            },
            "delete": {
                "security": [{"BasicAuth": []}],
                "description": "Animals of the deleted shelter are kept and lose their shelter.",
                "tags": ["admin"],
                "summary": "Delete a shelter",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "no content"},
                    "404": {"description": "not found"}
                }
            }
        },
        "/api/admin/usuaris": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.UsuarioDTO"}}}
                }
            },
            "post": {
                "security": [{"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create an account with any role",
                "parameters": [
                    {"description": "Account", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UsuarioDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/admin/usuaris/{id}": {
            "get": {
                "security": [{"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get one account",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "security": [{"BasicAuth": []}],
                "description": "Every field is replaced, the role included. An empty clauPas keeps the current password.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Replace an account",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"description": "Account", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.UsuarioDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.UsuarioDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "not found"}
                }
            },
            "delete": {
                "security": [{"BasicAuth": []}],
                "tags": ["admin"],
                "summary": "Delete an account",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "no content"},
                    "404": {"description": "not found"}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.Age": {
            "type": "object",
            "properties": {
                "anys": {"type": "integer"},
                "mesos": {"type": "integer"},
                "dies": {"type": "integer"}
            }
        },
        "model.Animal": {
            "type": "object",
            "properties": {
                "numId": {"type": "integer"},
                "nomAn": {"type": "string"},
                "sexe": {"type": "string"},
                "especie": {"type": "string"},
                "dataNeix": {"type": "string", "format": "date", "example": "2021-03-14"},
                "edat": {"$ref": "#/definitions/model.Age"},
                "numXip": {"type": "integer"},
                "esAdoptat": {"type": "boolean"},
                "descripcio": {"type": "string"},
                "fotoPerfil": {"type": "string"},
                "protectora": {"$ref": "#/definitions/model.Protectora"}
            }
        },
        "model.Protectora": {
            "type": "object",
            "properties": {
                "codiProt": {"type": "integer"},
                "nomProt": {"type": "string"},
                "adresa": {"type": "string"},
                "codiPostal": {"type": "string"},
                "localitat": {"type": "string"},
                "provincia": {"type": "string"},
                "url": {"type": "string"},
                "longitud": {"type": "number"},
                "latitud": {"type": "number"},
                "tlfProt": {"type": "string"},
                "emailProt": {"type": "string"}
            }
        },
        "model.UsuarioDTO": {
            "type": "object",
            "properties": {
                "codiUs": {"type": "integer"},
                "nomUs": {"type": "string"},
                "cognom1": {"type": "string"},
                "cognom2": {"type": "string"},
                "emailUs": {"type": "string"},
                "clauPas": {"type": "string"},
                "rolUs": {"type": "string", "enum": ["ADMIN", "ADOPTANT"]}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {
            "type": "basic"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Buscador Pelut API",
	Description:      "Pet-adoption directory: animals, shelters and user accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
