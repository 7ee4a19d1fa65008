package i18n_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("en", zap.NewNop())
	if err != nil {
		t.Fatalf("i18n.New failed: %v", err)
	}
	return tr
}

func TestNew_UnknownDefault(t *testing.T) {
	if _, err := i18n.New("fr", zap.NewNop()); err == nil {
		t.Error("expected error for a default language without messages")
	}
	if _, err := i18n.New("???", zap.NewNop()); err == nil {
		t.Error("expected error for an unparseable language")
	}
}

func TestLanguages_DefaultFirst(t *testing.T) {
	tr := newTranslator(t)
	if diff := cmp.Diff([]string{"en", "es"}, tr.Languages()); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		prefs []string
		want  string
	}{
		{[]string{"es-MX,es;q=0.9,en;q=0.8"}, "es"},
		{[]string{"en-GB"}, "en"},
		{[]string{"de-DE"}, "en"},
		{[]string{"es", "en"}, "es"},
		{[]string{"", "es"}, "es"},
		{nil, "en"},
	}
	for _, tt := range tests {
		if got := tr.Match(tt.prefs...); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.prefs, got, tt.want)
		}
	}
}

func TestMiddleware_PicksLanguage(t *testing.T) {
	tr := newTranslator(t)

	var got string
	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = i18n.T(r.Context(), "NavHome", nil)
	}))

	req := httptest.NewRequest("GET", "/home", nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got != "Inicio" {
		t.Errorf("expected Spanish copy, got %q", got)
	}
	if cl := rec.Header().Get("Content-Language"); cl != "es" {
		t.Errorf("expected Content-Language es, got %q", cl)
	}

	req = httptest.NewRequest("GET", "/home?lang=en", nil)
	req.Header.Set("Accept-Language", "es")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "Home" {
		t.Errorf("expected query override to English, got %q", got)
	}
}

func TestT_TemplateData(t *testing.T) {
	tr := newTranslator(t)
	ctx := tr.WithLanguage(context.Background(), "en")

	if got := i18n.T(ctx, "HomeGreeting", map[string]any{"Username": "ada"}); got != "Welcome back, ada." {
		t.Errorf("unexpected greeting %q", got)
	}
	if got := i18n.Func(ctx)("NotFoundBody", "Path", "/x"); got != "We could not find /x." {
		t.Errorf("unexpected not-found copy %q", got)
	}
}

func TestT_Fallbacks(t *testing.T) {
	if got := i18n.T(context.Background(), "NavHome", nil); got != "NavHome" {
		t.Errorf("expected id without localizer, got %q", got)
	}

	ctx := newTranslator(t).WithLanguage(context.Background(), "es")
	if got := i18n.T(ctx, "NoSuchMessage", nil); got != "NoSuchMessage" {
		t.Errorf("expected id for unknown message, got %q", got)
	}
	if i18n.Lang(ctx) != "es" {
		t.Errorf("expected lang es, got %q", i18n.Lang(ctx))
	}
}
