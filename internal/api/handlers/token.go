package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// TokenResetter drops the cached access token.
type TokenResetter interface {
	ClearToken()
}

// TokenHandler manages the cached partner API token.
type TokenHandler struct {
	tokens TokenResetter
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(t TokenResetter) *TokenHandler {
	return &TokenHandler{tokens: t}
}

// Clear drops the cached token; the next widget render fetches a new one.
func (h *TokenHandler) Clear(_ context.Context, _ *struct{}) (*struct{}, error) {
	h.tokens.ClearToken()
	return nil, nil
}

// RegisterTokenRoutes registers token endpoints with the Huma API.
func RegisterTokenRoutes(api huma.API, h *TokenHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "clear-token",
		Method:        http.MethodDelete,
		Path:          "/api/v1/token",
		Summary:       "Clear the cached access token",
		Tags:          []string{"token"},
		DefaultStatus: http.StatusNoContent,
	}, h.Clear)
}
