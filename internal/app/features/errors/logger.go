// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and renders a
// friendly page instead of leaking the error to the browser.
type ErrorLogger struct {
	Log    *zap.Logger
	Render RenderFunc // defaults to TemplateRender
}

// NewErrorLogger builds an ErrorLogger. A nil logger is replaced with a no-op.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger, Render: TemplateRender}
}

func (e *ErrorLogger) renderer() RenderFunc {
	if e == nil || e.Render == nil {
		return TemplateRender
	}
	return e.Render
}

func (e *ErrorLogger) logger() *zap.Logger {
	if e == nil || e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func requestFields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs msg and err at error level and renders a 500 page
// showing userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.logger().Error(msg, requestFields(r, err)...)
	e.RenderError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.logger().Warn(msg, requestFields(r, err)...)
	e.RenderError(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogForbidden logs at warn level and renders the 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.logger().Warn(msg, requestFields(r, err)...)
	e.RenderForbidden(w, r, userMsg, backURL)
}
