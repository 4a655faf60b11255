// Package spec embeds the OpenAPI description of the HTTP API.
package spec

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.yaml
var document []byte

// Document returns the embedded OpenAPI document.
func Document() []byte {
	return document
}

// OpenAPIHandler serves the embedded document for the Swagger UI.
func OpenAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(document)
	}
}
