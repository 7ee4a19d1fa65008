package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("fourth attempt inside the window should be denied")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys have their own budget")
	}

	// One token comes back every window/limit.
	now = now.Add(20 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Error("expected a refilled token after 20s")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected denial")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after reset")
	}
}

func TestLimiter_PrunesIdleKeys(t *testing.T) {
	l := New(5, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", l.Len())
	}

	now = now.Add(3 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("expected idle keys pruned, got %d", l.Len())
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded header ignored", "10.0.0.1, 10.0.0.2", "", "192.0.2.1:1234", "192.0.2.1"},
		{"real ip header ignored", "", "10.0.0.9", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/sign-in", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientIP_BehindRealIP(t *testing.T) {
	var got string
	h := middleware.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))

	r := httptest.NewRequest("POST", "/sign-in", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != "10.0.0.1" {
		t.Errorf("ClientIP = %q, want %q", got, "10.0.0.1")
	}
}

func TestAuthLimiter_SpoofedForwardedForSharesBudget(t *testing.T) {
	a := NewAuthLimiter(2, time.Minute)

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("POST", "/sign-in", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		allowed := a.Allow(r, "")
		if i < 2 && !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if i == 2 && allowed {
			t.Error("a new X-Forwarded-For value must not buy a fresh budget")
		}
	}
}

func TestAuthLimiter_LimitsByUsername(t *testing.T) {
	a := NewAuthLimiter(2, time.Minute)

	for i, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		r := httptest.NewRequest("POST", "/sign-in", nil)
		r.RemoteAddr = ip
		if !a.Allow(r, "Ada") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	r := httptest.NewRequest("POST", "/sign-in", nil)
	r.RemoteAddr = "10.0.0.3:1"
	if a.Allow(r, " ada ") {
		t.Error("third attempt for the same username should be denied")
	}

	a.ResetUser("ADA")
	if !a.Allow(r, "ada") {
		t.Error("expected allow after ResetUser")
	}
}
