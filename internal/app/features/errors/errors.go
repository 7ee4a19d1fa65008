// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Template names.
const (
	ForbiddenTemplate = "error_forbidden"
	ErrorTemplate     = "error_page"
)

// RenderFunc writes the named template with data. Status and headers are
// already written by the caller.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// TemplateRender renders through the WAFFLE template engine.
func TemplateRender(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Heading string
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct {
	ErrLog *ErrorLogger
}

// NewHandler constructs an errors Handler.
func NewHandler(errLog *ErrorLogger) *Handler {
	return &Handler{ErrLog: errLog}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.RenderForbidden(w, r, "", "")
}

// RenderForbidden shows the access denied page with status 403.
// An empty msg uses the localized default. An empty backURL resolves a safe
// back URL with /home as the fallback.
func (e *ErrorLogger) RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	ctx := r.Context()
	if msg == "" {
		msg = i18n.T(ctx, "ForbiddenBody", nil)
	}
	heading := i18n.T(ctx, "ForbiddenHeading", nil)
	e.render(w, r, http.StatusForbidden, ForbiddenTemplate, heading, msg, backURL)
}

// RenderError shows the generic error page with the given status.
func (e *ErrorLogger) RenderError(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	heading := i18n.T(r.Context(), "ErrorHeading", nil)
	e.render(w, r, status, ErrorTemplate, heading, msg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, tmpl, heading, msg, backURL string) {
	if backURL == "" {
		backURL = site.HomePath
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, navguard.FormatTitle(site.AppName, heading), backURL),
		Heading: heading,
		Message: msg,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	e.renderer()(w, r, tmpl, data)
}
