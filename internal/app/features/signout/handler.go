// internal/app/features/signout/handler.go
package signout

import (
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/features/shared"
	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/auditlog"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   auditLog,
	}
}

// HandleSignOut handles POST /sign-out.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	// A failed save still redirects; the user sees the same signed-in page
	// and can retry.
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("sign-out: save session", zap.Error(err))
	}
	if u != nil {
		h.AuditLog.SignOut(r.Context(), r, u.ID, u.Username)
	}

	shared.Redirect(w, r, site.HomePath)
}
