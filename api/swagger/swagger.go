package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Media Lookup API",
        "description": "Snapshot-backed search over an upstream media library",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Media", "description": "Search over the materialized media snapshot"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Snapshot readiness check",
                "responses": {
                    "200": {"description": "Snapshot installed"},
                    "503": {"description": "First ingest still running"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/media/assets": {
            "get": {
                "tags": ["Media"],
                "summary": "Search media assets",
                "description": "Filters the snapshot with AND semantics across whitespace-separated terms. Pages are fixed at 50 assets; follow the continuation cursor until it is null.",
                "parameters": [
                    {"name": "searchText", "in": "query", "type": "string"},
                    {"name": "cursor", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "503": {"description": "Snapshot not ready", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "AssetView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "kind": {"type": "string", "enum": ["IMAGE", "VIDEO", "AUDIO", "FILE"]},
                "contentType": {"type": "string"},
                "format": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "width": {"type": "integer"},
                "height": {"type": "integer"},
                "thumbnailUrl": {"type": "string"},
                "previewUrl": {"type": "string"},
                "originalUrl": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["SUCCESS", "ERROR"]},
                "resources": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssetView"}
                },
                "continuation": {"type": "string", "x-nullable": true},
                "message": {"type": "string"}
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
