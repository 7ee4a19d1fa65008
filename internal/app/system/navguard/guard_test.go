package navguard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func match(name, title string) *routetable.Match {
	return &routetable.Match{
		Entry: &routetable.Entry{Path: "/" + name, Name: name, Meta: routetable.Meta{Title: title}},
		Path:  "/" + name,
	}
}

type titleRecorder struct {
	titles []string
}

func (r *titleRecorder) SetTitle(title string) { r.titles = append(r.titles, title) }

func (r *titleRecorder) last() string {
	if len(r.titles) == 0 {
		return ""
	}
	return r.titles[len(r.titles)-1]
}

type transitionRecorder struct {
	got []navguard.Transition
}

func (r *transitionRecorder) RecordTransition(_ context.Context, t navguard.Transition) {
	r.got = append(r.got, t)
}

func TestFormatTitle(t *testing.T) {
	if got := navguard.FormatTitle("ACME Learning Center", "Home"); got != "ACME Learning Center | Home" {
		t.Errorf("unexpected title %q", got)
	}
	if got := navguard.FormatTitle("ACME Learning Center", ""); got != "ACME Learning Center" {
		t.Errorf("unexpected title for empty page title %q", got)
	}
}

func TestRun_NoPolicyAllows(t *testing.T) {
	titles := &titleRecorder{}
	g := navguard.New(navguard.Config{AppName: "ACME Learning Center", Title: titles})

	d := g.Run(context.Background(), "nav-1", match("home", "Home"), nil)

	if d.Verdict != navguard.VerdictAllow {
		t.Errorf("expected allow, got %+v", d)
	}
	if titles.last() != "ACME Learning Center | Home" {
		t.Errorf("unexpected title %q", titles.last())
	}
}

func TestRun_LogsAndRecordsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &transitionRecorder{}
	g := navguard.New(navguard.Config{
		AppName:  "ACME Learning Center",
		Title:    &titleRecorder{},
		Policy:   navguard.AllowAll,
		Recorder: rec,
		Log:      zap.New(core),
	})

	g.Run(context.Background(), "nav-1", match("about", "About"), match("home", "Home"))

	entries := logs.FilterMessage("navigating").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 navigating log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["from"] != "home" || fields["to"] != "about" {
		t.Errorf("unexpected log fields: %v", fields)
	}

	if len(rec.got) != 1 {
		t.Fatalf("expected 1 recorded transition, got %d", len(rec.got))
	}
	tr := rec.got[0]
	if tr.From != "home" || tr.To != "about" || tr.Path != "/about" || tr.NavigationID != "nav-1" {
		t.Errorf("unexpected transition: %+v", tr)
	}
}

func TestRun_InitialLoadHasEmptyFrom(t *testing.T) {
	rec := &transitionRecorder{}
	g := navguard.New(navguard.Config{Title: &titleRecorder{}, Recorder: rec})

	g.Run(context.Background(), "nav-1", match("home", "Home"), nil)

	if len(rec.got) != 1 || rec.got[0].From != "" {
		t.Errorf("expected empty from on initial load, got %+v", rec.got)
	}
}

func TestRun_TitleSetBeforePolicy(t *testing.T) {
	titles := &titleRecorder{}
	var seen string
	g := navguard.New(navguard.Config{
		AppName: "ACME Learning Center",
		Title:   titles,
		Policy: navguard.PolicyFunc(func(ctx context.Context, to, from *routetable.Match) (navguard.Decision, error) {
			seen = titles.last()
			return navguard.Deny("nope"), nil
		}),
	})

	d := g.Run(context.Background(), "nav-1", match("profile", "Profile"), nil)

	if d.Verdict != navguard.VerdictDeny {
		t.Errorf("expected deny, got %+v", d)
	}
	if seen != "ACME Learning Center | Profile" {
		t.Errorf("policy saw title %q", seen)
	}
}

func TestRun_PolicyDecisionsPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		policy navguard.AuthorizationPolicy
		want   navguard.Decision
	}{
		{"allow", navguard.AllowAll, navguard.Allow()},
		{"deny", navguard.DenyAll, navguard.Deny("navigation disabled")},
		{"redirect", navguard.PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (navguard.Decision, error) {
			return navguard.RedirectTo("/sign-in"), nil
		}), navguard.RedirectTo("/sign-in")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := navguard.New(navguard.Config{Title: &titleRecorder{}, Policy: tt.policy})
			got := g.Run(context.Background(), "nav", match("home", "Home"), nil)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRun_FailClosed(t *testing.T) {
	tests := []struct {
		name   string
		policy navguard.AuthorizationPolicy
	}{
		{"error", navguard.PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (navguard.Decision, error) {
			return navguard.Decision{}, errors.New("auth backend down")
		})},
		{"panic", navguard.PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (navguard.Decision, error) {
			panic("boom")
		})},
		{"empty verdict", navguard.PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (navguard.Decision, error) {
			return navguard.Decision{}, nil
		})},
		{"redirect without path", navguard.PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (navguard.Decision, error) {
			return navguard.RedirectTo(""), nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := navguard.New(navguard.Config{Title: &titleRecorder{}, Policy: tt.policy})
			got := g.Run(context.Background(), "nav", match("home", "Home"), nil)
			if got.Verdict != navguard.VerdictDeny {
				t.Errorf("expected deny, got %+v", got)
			}
			if got.State() != navguard.StateBlocked {
				t.Errorf("expected blocked state, got %q", got.State())
			}
		})
	}
}

func TestRun_ContextCancelledBlocks(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	g := navguard.New(navguard.Config{
		Title: &titleRecorder{},
		Policy: navguard.PolicyFunc(func(ctx context.Context, _, _ *routetable.Match) (navguard.Decision, error) {
			select {
			case <-release:
				return navguard.Allow(), nil
			case <-ctx.Done():
				return navguard.Decision{}, ctx.Err()
			}
		}),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := g.Run(ctx, "nav", match("home", "Home"), nil)
	if got.Verdict != navguard.VerdictDeny {
		t.Errorf("expected deny on cancelled context, got %+v", got)
	}
}

func TestRun_NilTarget(t *testing.T) {
	g := navguard.New(navguard.Config{})
	if got := g.Run(context.Background(), "nav", nil, nil); got.Verdict != navguard.VerdictDeny {
		t.Errorf("expected deny for nil target, got %+v", got)
	}
}

func TestFromCheck(t *testing.T) {
	tests := []struct {
		name  string
		check navguard.Check
		want  navguard.Verdict
		path  string
	}{
		{"allow", func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
			next.Allow()
			return nil
		}, navguard.VerdictAllow, ""},
		{"redirect", func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
			next.Redirect("/sign-in")
			return nil
		}, navguard.VerdictRedirect, "/sign-in"},
		{"block", func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
			next.Block()
			return nil
		}, navguard.VerdictDeny, ""},
		{"silent", func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
			return nil
		}, navguard.VerdictDeny, ""},
		{"first call wins", func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
			next.Redirect("/sign-in")
			next.Allow()
			return nil
		}, navguard.VerdictRedirect, "/sign-in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := navguard.New(navguard.Config{Title: &titleRecorder{}, Policy: navguard.FromCheck(tt.check)})
			got := g.Run(context.Background(), "nav", match("home", "Home"), nil)
			if got.Verdict != tt.want || got.Path != tt.path {
				t.Errorf("expected %s %q, got %+v", tt.want, tt.path, got)
			}
		})
	}
}

func TestFromCheck_ErrorBlocks(t *testing.T) {
	check := func(_ context.Context, _, _ *routetable.Match, next *navguard.Next) error {
		return errors.New("token refresh failed")
	}
	g := navguard.New(navguard.Config{Title: &titleRecorder{}, Policy: navguard.FromCheck(check)})

	if got := g.Run(context.Background(), "nav", match("home", "Home"), nil); got.Verdict != navguard.VerdictDeny {
		t.Errorf("expected deny, got %+v", got)
	}
}
