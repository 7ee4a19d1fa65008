// internal/app/features/signout/routes.go
package signout

import (
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Register claims exactly /sign-out. A GET has no route of its own, so it is
// handed to page like any other unknown path.
func Register(r chi.Router, h *Handler, sm *auth.SessionManager, page http.HandlerFunc) {
	r.Get("/sign-out", page)

	// Only signed-in users can sign out.
	r.With(sm.RequireSignedIn).Post("/sign-out", h.HandleSignOut)
}
