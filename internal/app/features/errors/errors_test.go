package errors_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/acmelearning/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captured struct {
	name string
	data any
}

func newLogger(t *testing.T, logger *zap.Logger) (*errorsfeature.ErrorLogger, *captured) {
	t.Helper()
	got := &captured{}
	el := errorsfeature.NewErrorLogger(logger)
	el.Render = func(w http.ResponseWriter, r *http.Request, name string, data any) {
		got.name = name
		got.data = data
		_, _ = w.Write([]byte(name))
	}
	return el, got
}

func TestForbidden_Renders403(t *testing.T) {
	el, got := newLogger(t, zap.NewNop())
	h := errorsfeature.NewHandler(el)

	rec := httptest.NewRecorder()
	h.Forbidden(rec, httptest.NewRequest("GET", "/forbidden", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
	if got.name != errorsfeature.ForbiddenTemplate {
		t.Errorf("expected template %q, got %q", errorsfeature.ForbiddenTemplate, got.name)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
}

func TestLogServerError_LogsAndRenders500(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	el, got := newLogger(t, zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/sign-in", nil)
	el.LogServerError(rec, req, "save session failed", stderrors.New("boom"), "Something went wrong.", "/sign-in")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if got.name != errorsfeature.ErrorTemplate {
		t.Errorf("expected template %q, got %q", errorsfeature.ErrorTemplate, got.name)
	}

	entries := logs.FilterMessage("save session failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/sign-in" || fields["method"] != "POST" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestLogBadRequest_Renders400AtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	el, _ := newLogger(t, zap.New(core))

	rec := httptest.NewRecorder()
	el.LogBadRequest(rec, httptest.NewRequest("POST", "/sign-up", nil), "parse form failed", stderrors.New("bad"), "Invalid form data.", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Error("expected one warn entry")
	}
}

func TestNilErrorLogger_DoesNotPanicOnLogging(t *testing.T) {
	el := &errorsfeature.ErrorLogger{
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {},
	}
	rec := httptest.NewRecorder()
	el.LogForbidden(rec, httptest.NewRequest("GET", "/profile", nil), "denied", nil, "", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
