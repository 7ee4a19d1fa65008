// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a keyed token-bucket limiter. Each key may spend up to limit
// requests at once and regains them evenly over window.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idle    time.Duration // buckets unused this long are pruned
	lastGC  time.Time
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing limit requests per window per key.
func New(limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window * 2,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// Reset forgets key, e.g. after a successful sign-in.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len reports how many keys are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// prune drops idle buckets at most once per idle period. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	if now.Sub(l.lastGC) < l.idle {
		return
	}
	l.lastGC = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
}

// ClientIP extracts the client IP from r.RemoteAddr. Forwarding headers are
// client-controlled and never read here; behind a trusted proxy, chi's
// middleware.RealIP copies them into RemoteAddr first.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// AuthLimiter guards the sign-in and sign-up forms. It limits by client IP
// and, when a username is given, by username too, so neither a single
// client nor a spread of clients can hammer one account.
type AuthLimiter struct {
	ip   *Limiter
	user *Limiter
}

// NewAuthLimiter allows limit attempts per window per IP and per username.
func NewAuthLimiter(limit int, window time.Duration) *AuthLimiter {
	return &AuthLimiter{ip: New(limit, window), user: New(limit, window)}
}

// Allow reports whether an attempt from r for username may proceed.
func (a *AuthLimiter) Allow(r *http.Request, username string) bool {
	if !a.ip.Allow(ClientIP(r)) {
		return false
	}
	if key := userKey(username); key != "" {
		return a.user.Allow(key)
	}
	return true
}

// ResetUser clears the username budget after a successful sign-in.
func (a *AuthLimiter) ResetUser(username string) {
	if key := userKey(username); key != "" {
		a.user.Reset(key)
	}
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
