// internal/app/features/signup/routes.go
package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register claims exactly /sign-up. GET is an ordinary navigation handled by
// page; deeper paths fall through to the page catch-all.
func Register(r chi.Router, h *Handler, page http.HandlerFunc) {
	r.Get("/sign-up", page)
	r.Post("/sign-up", h.HandleSignUp)
}
