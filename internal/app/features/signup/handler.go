// internal/app/features/signup/handler.go
package signup

import (
	"net/http"
	"net/url"
	"strconv"

	uierrors "github.com/dalemusser/acmelearning/internal/app/features/errors"
	"github.com/dalemusser/acmelearning/internal/app/features/pages"
	"github.com/dalemusser/acmelearning/internal/app/features/shared"
	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/auditlog"
	"github.com/dalemusser/acmelearning/internal/app/system/authapi"
	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/dalemusser/acmelearning/internal/app/system/inputval"
	"github.com/dalemusser/acmelearning/internal/app/system/limits"
	"github.com/dalemusser/acmelearning/internal/app/system/ratelimit"
	"github.com/dalemusser/acmelearning/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler creates accounts through the authentication API.
type Handler struct {
	Auth     *authapi.Service
	Limiter  *ratelimit.AuthLimiter // nil disables rate limiting
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	Render   uierrors.RenderFunc
}

func NewHandler(svc *authapi.Service, limiter *ratelimit.AuthLimiter, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:     svc,
		Limiter:  limiter,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Log:      logger,
		Render:   uierrors.TemplateRender,
	}
}

// createdURL is where a new account lands: the sign-in form with a notice.
var createdURL = site.SignInPath + "?" + url.Values{"created": {"1"}}.Encode()

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sign-up                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxAuthFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", site.SignUpPath)
		return
	}

	username := inputval.Username(r.FormValue("username"))
	password := r.FormValue("password")
	if err := inputval.Credentials(username, password); err != nil {
		h.renderFormWithError(w, r, http.StatusOK, username, shared.InputMessage(r, err))
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow(r, username) {
		h.AuditLog.SignUpRateLimited(ctx, r, username)
		h.renderFormWithError(w, r, http.StatusTooManyRequests, username, i18n.T(ctx, "TooManyAttempts", nil))
		return
	}

	callCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Backend(), h.Log, "sign-up")
	resp, err := h.Auth.SignUp(callCtx, authapi.SignUpRequest{Username: username, Password: password})
	cancel()
	if err != nil {
		status, msg := shared.Failure(r, err, "SignUpFailed")
		h.Log.Info("sign-up rejected",
			zap.String("username", username),
			zap.Int("backend_status", authapi.Status(err)),
			zap.Error(err))
		h.AuditLog.SignUpFailed(ctx, r, username, authapi.Status(err), shared.AuditReason(err))
		h.renderFormWithError(w, r, status, username, msg)
		return
	}

	name := resp.Username
	if name == "" {
		name = username
	}
	h.AuditLog.SignUpSuccess(ctx, r, strconv.FormatInt(resp.ID, 10), name)
	h.Log.Info("account created", zap.Int64("user_id", resp.ID))

	shared.Redirect(w, r, createdURL)
}

// renderFormWithError re-renders the sign-up page. The password is never echoed.
func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, username, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.Render(w, r, site.SignUpTemplate, pages.NewFormVM(r, site.RouteSignUp, username, msg))
}
