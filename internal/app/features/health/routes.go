// internal/app/features/health/routes.go
package health

import "github.com/go-chi/chi/v5"

// Register adds GET /health. Only the exact path is claimed so deeper paths
// reach the page catch-all.
func Register(r chi.Router, h *Handler) {
	r.Get("/health", h.Serve)
}
