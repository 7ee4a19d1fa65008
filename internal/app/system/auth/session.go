// Package auth owns the browser session: who is signed in, which route the
// session last committed, and the navigation policy derived from both.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "username"
	userTokenKey = "token"
	lastRouteKey = "last_route"

	minSessionKeyLen = 32
	encryptionInfo   = "acmelearning session encryption"
	csrfInfo         = "acmelearning csrf"
)

// ErrNoSessionKey is returned when the session key is empty.
var ErrNoSessionKey = errors.New("session key is empty; provide 32+ random chars")

// SessionManager wraps a cookie store configured for this app.
type SessionManager struct {
	store      *sessions.CookieStore
	name       string
	signInPath string
	log        *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. Cookies are signed
// with sessionKey and encrypted with an AES-256 key derived from it.
//
// In production (secure=true) cookies are Secure + SameSite=None. In local
// dev over http://localhost pass secure=false so the browser accepts them.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessionKey == "" {
		return nil, ErrNoSessionKey
	}
	if len(sessionKey) < minSessionKeyLen {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "acme-session"
	}

	encKey, err := deriveKey(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("derive session encryption key: %w", err)
	}

	store := sessions.NewCookieStore([]byte(sessionKey), encKey)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, signInPath: "/sign-in", log: logger}, nil
}

func deriveKey(secret string) ([]byte, error) {
	return expand(secret, encryptionInfo)
}

// CSRFKey derives the 32-byte gorilla/csrf authentication key from the
// session secret, independent of the cookie encryption key.
func CSRFKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrNoSessionKey
	}
	return expand(secret, csrfInfo)
}

func expand(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Name returns the cookie name.
func (sm *SessionManager) Name() string { return sm.name }

func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	// A cookie that fails to decode (rotated key, tampering) yields a fresh
	// session; the error is only worth a debug line.
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Debug("discarding unreadable session cookie", zap.Error(err))
	}
	return sess
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the signed-in user into the request context.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:       getString(sess, userIDKey),
				Username: getString(sess, userNameKey),
				Token:    getString(sess, userTokenKey),
			}
			r = WithTestUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /sign-in?return=...
//   - HTML: 303 redirect to /sign-in?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		dest := sm.signInPath + "?return=" + url.QueryEscape(r.URL.RequestURI())

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", dest)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session writes                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SignIn stores u in the session. Call before writing the response body.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess := sm.session(r)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Username
	sess.Values[userTokenKey] = u.Token
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut removes the user from the session. The last route survives so the
// next navigation still has a "from".
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := sm.session(r)
	for _, k := range []string{isAuthKey, userIDKey, userNameKey, userTokenKey} {
		delete(sess.Values, k)
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LastRoute returns the name of the route this session last committed,
// or "" if it never navigated.
func (sm *SessionManager) LastRoute(r *http.Request) string {
	return getString(sm.session(r), lastRouteKey)
}

// RememberRoute records name as the session's committed route.
func (sm *SessionManager) RememberRoute(w http.ResponseWriter, r *http.Request, name string) error {
	sess := sm.session(r)
	if getString(sess, lastRouteKey) == name {
		return nil
	}
	sess.Values[lastRouteKey] = name
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// helpers

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
