package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/search"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(engine *search.Engine, authEnabled bool, token string) chi.Router {
	h := NewHandler(engine)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Search.
	r.Post("/search", h.Search)

	return r
}
