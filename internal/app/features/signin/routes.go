// internal/app/features/signin/routes.go
package signin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register claims exactly /sign-in. GET is an ordinary navigation handled by
// page; deeper paths fall through to the page catch-all.
func Register(r chi.Router, h *Handler, page http.HandlerFunc) {
	r.Get("/sign-in", page)
	r.Post("/sign-in", h.HandleSignIn)
}
