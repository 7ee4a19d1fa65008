// internal/app/features/pages/routes.go
package pages

import "github.com/go-chi/chi/v5"

// Routes serves every page path. Mount it at "/" after the feature routers
// that own specific paths.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/*", h.Serve)
	return r
}
