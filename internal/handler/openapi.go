package handler

import (
	"net/http"

	"github.com/mkrentals/backoffice/internal/openapi"
)

// OpenAPIHandler serves the OpenAPI document for the HTTP API.
type OpenAPIHandler struct {
	cookieName string
	baseURL    string
}

// NewOpenAPIHandler creates a new OpenAPIHandler.
func NewOpenAPIHandler(cookieName, baseURL string) *OpenAPIHandler {
	return &OpenAPIHandler{cookieName: cookieName, baseURL: baseURL}
}

// ServeSpec returns the OpenAPI document.
// GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openapi.Generate(h.cookieName, h.baseURL))
}
