// Package i18n localizes page copy. Message files are embedded TOML, one per
// language (locales/active.<lang>.toml).
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// LangParam is the query parameter that overrides Accept-Language.
const LangParam = "lang"

// Translator holds the message bundle and picks a language per request.
type Translator struct {
	bundle  *goi18n.Bundle
	matcher language.Matcher
	def     language.Tag
	log     *zap.Logger
}

// New loads the embedded message files. defaultLang must be one of them.
func New(defaultLang string, logger *zap.Logger) (*Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("default language %q: %w", defaultLang, err)
	}

	bundle := goi18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", path.Base(f), err)
		}
	}

	// The matcher falls back to its first tag, so the default goes first.
	tags := []language.Tag{def}
	found := false
	for _, t := range bundle.LanguageTags() {
		if t == def {
			found = true
			continue
		}
		tags = append(tags, t)
	}
	if !found {
		return nil, fmt.Errorf("default language %q has no message file", defaultLang)
	}

	logger.Info("i18n bundle loaded",
		zap.String("default", def.String()),
		zap.Int("languages", len(tags)))

	return &Translator{
		bundle:  bundle,
		matcher: language.NewMatcher(tags),
		def:     def,
		log:     logger,
	}, nil
}

// Languages lists the supported languages, default first.
func (t *Translator) Languages() []string {
	tags := []string{t.def.String()}
	for _, tag := range t.bundle.LanguageTags() {
		if tag != t.def {
			tags = append(tags, tag.String())
		}
	}
	return tags
}

// Match picks the best supported language for the given preferences
// (language tags or Accept-Language values, most preferred first).
func (t *Translator) Match(prefs ...string) string {
	tag, _ := language.MatchStrings(t.matcher, prefs...)
	base, _ := tag.Base()
	return base.String()
}

type ctxKey struct{}

type localizer struct {
	lang string
	loc  *goi18n.Localizer
	log  *zap.Logger
}

// Middleware picks the request language from ?lang= or Accept-Language and
// stores a localizer in the context.
func (t *Translator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := t.Match(r.URL.Query().Get(LangParam), r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", lang)
		next.ServeHTTP(w, r.WithContext(t.WithLanguage(r.Context(), lang)))
	})
}

// WithLanguage returns ctx carrying a localizer for lang.
func (t *Translator) WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &localizer{
		lang: lang,
		loc:  goi18n.NewLocalizer(t.bundle, lang, t.def.String()),
		log:  t.log,
	})
}

// Lang returns the language chosen for ctx, or "" outside the middleware.
func Lang(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(*localizer); ok {
		return l.lang
	}
	return ""
}

// T localizes id for ctx. Without a localizer, or for an unknown id, it
// returns id unchanged so pages still render.
func T(ctx context.Context, id string, data map[string]any) string {
	l, ok := ctx.Value(ctxKey{}).(*localizer)
	if !ok {
		return id
	}
	msg, err := l.loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		l.log.Debug("missing translation", zap.String("id", id), zap.String("lang", l.lang), zap.Error(err))
		return id
	}
	return msg
}

// Func returns a template-friendly translator bound to ctx.
func Func(ctx context.Context) func(id string, kv ...any) string {
	return func(id string, kv ...any) string {
		var data map[string]any
		if len(kv) > 1 {
			data = make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				if k, ok := kv[i].(string); ok {
					data[k] = kv[i+1]
				}
			}
		}
		return T(ctx, id, data)
	}
}
