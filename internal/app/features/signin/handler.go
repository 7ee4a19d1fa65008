// internal/app/features/signin/handler.go
package signin

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/acmelearning/internal/app/features/errors"
	"github.com/dalemusser/acmelearning/internal/app/features/pages"
	"github.com/dalemusser/acmelearning/internal/app/features/shared"
	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/auditlog"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/dalemusser/acmelearning/internal/app/system/authapi"
	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/dalemusser/acmelearning/internal/app/system/inputval"
	"github.com/dalemusser/acmelearning/internal/app/system/limits"
	"github.com/dalemusser/acmelearning/internal/app/system/navigation"
	"github.com/dalemusser/acmelearning/internal/app/system/ratelimit"
	"github.com/dalemusser/acmelearning/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Auth       *authapi.Service
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.AuthLimiter // nil disables rate limiting
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// Render writes the re-rendered form; defaults to the WAFFLE engine.
	Render uierrors.RenderFunc
}

func NewHandler(svc *authapi.Service, sessionMgr *auth.SessionManager, limiter *ratelimit.AuthLimiter, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       svc,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger,
		Render:     uierrors.TemplateRender,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sign-in                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxAuthFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", site.SignInPath)
		return
	}

	username := inputval.Username(r.FormValue("username"))
	password := r.FormValue("password")
	if err := inputval.Credentials(username, password); err != nil {
		h.renderFormWithError(w, r, http.StatusOK, username, shared.InputMessage(r, err))
		return
	}

	/*── rate limit by client IP and username ──────────────────────────────*/

	if h.Limiter != nil && !h.Limiter.Allow(r, username) {
		h.AuditLog.SignInRateLimited(ctx, r, username)
		h.renderFormWithError(w, r, http.StatusTooManyRequests, username, i18n.T(ctx, "TooManyAttempts", nil))
		return
	}

	/*── ask the authentication API ─────────────────────────────────────────*/

	callCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Backend(), h.Log, "sign-in")
	resp, err := h.Auth.SignIn(callCtx, authapi.SignInRequest{Username: username, Password: password})
	cancel()
	if err != nil {
		status, msg := shared.Failure(r, err, "SignInFailed")
		h.Log.Info("sign-in rejected",
			zap.String("username", username),
			zap.Int("backend_status", authapi.Status(err)),
			zap.Error(err))
		h.AuditLog.SignInFailed(ctx, r, username, authapi.Status(err), shared.AuditReason(err))
		h.renderFormWithError(w, r, status, username, msg)
		return
	}

	/*── create the session ─────────────────────────────────────────────────*/

	user := auth.SessionUser{
		ID:       strconv.FormatInt(resp.ID, 10),
		Username: resp.Username,
		Token:    resp.Token,
	}
	if user.Username == "" {
		user.Username = username
	}
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "A server error occurred.", site.SignInPath)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetUser(username)
	}
	h.AuditLog.SignInSuccess(ctx, r, user.ID, user.Username)

	dest := navigation.ReturnURL(r, navigation.AuthReturn)
	h.Log.Info("user signed in", zap.String("user_id", user.ID), zap.String("redirect", dest))

	shared.Redirect(w, r, dest)
}

// renderFormWithError re-renders the sign-in page. The password is never echoed.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, username, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.Render(w, r, site.SignInTemplate, pages.NewFormVM(r, site.RouteSignIn, username, msg))
}
