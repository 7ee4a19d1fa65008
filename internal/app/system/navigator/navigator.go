// Package navigator hosts route transitions: it resolves a path against the
// route table, runs the navigation guard, loads the page, and commits the
// new active route. A navigation that starts while an older one is still
// in flight supersedes it; the older one never commits.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const tracerName = "github.com/dalemusser/acmelearning/navigator"

var (
	// ErrSuperseded is returned by a navigation that was overtaken by a newer one.
	ErrSuperseded = errors.New("navigation superseded")
	// ErrTooManyRedirects is returned when guard redirects exceed the table's bound.
	ErrTooManyRedirects = errors.New("too many guard redirects")
)

// Navigation describes one navigation attempt and where it ended.
type Navigation struct {
	ID        string
	Requested string
	From      *routetable.Match // active route when the attempt started; nil on initial load
	To        *routetable.Match // last resolved target
	State     navguard.State

	RedirectTo string          // last guard redirect target
	Hops       []string        // guard redirects that were followed
	Page       routetable.Page // resolved page once committed
	Reason     string          // why the attempt was blocked, when known
	Committed  bool            // the attempt changed the active route
}

// Navigator owns the active route for one navigation context (a browser
// session, a CLI run, a test).
type Navigator struct {
	table   *routetable.Table
	guard   *navguard.Guard
	log     *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
	follow  bool

	seq     atomic.Uint64
	mu      sync.Mutex
	current *routetable.Match
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.log = l
		}
	}
}

// WithMetrics records navigations into m.
func WithMetrics(m *Metrics) Option {
	return func(n *Navigator) { n.metrics = m }
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(n *Navigator) {
		if t != nil {
			n.tracer = t
		}
	}
}

// WithCurrent seeds the active route, e.g. from a session.
func WithCurrent(m *routetable.Match) Option {
	return func(n *Navigator) { n.current = m }
}

// WithFollowRedirects controls whether guard redirects are followed
// internally (default) or handed back to the caller as StateRedirected.
func WithFollowRedirects(follow bool) Option {
	return func(n *Navigator) { n.follow = follow }
}

// New builds a Navigator over table, guarded by guard.
func New(table *routetable.Table, guard *navguard.Guard, opts ...Option) *Navigator {
	n := &Navigator{
		table:  table,
		guard:  guard,
		log:    zap.NewNop(),
		tracer: otel.Tracer(tracerName),
		follow: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Current returns the active route, or nil before the first commit.
func (n *Navigator) Current() *routetable.Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate runs one navigation to path. Each attempt reaches exactly one
// terminal state; only Allowed (or a followed Redirected) commits.
func (n *Navigator) Navigate(ctx context.Context, path string) (Navigation, error) {
	started := time.Now()
	seq := n.seq.Inc()

	nav := Navigation{
		ID:        uuid.NewString(),
		Requested: path,
		From:      n.Current(),
		State:     navguard.StatePending,
	}

	ctx, span := n.tracer.Start(ctx, "navigate", trace.WithAttributes(
		attribute.String("navigation.id", nav.ID),
		attribute.String("navigation.path", path),
		attribute.String("navigation.from", nav.From.Name()),
	))
	defer span.End()

	target := path
	for {
		m, err := n.table.Resolve(target)
		if err != nil {
			return n.finish(span, nav, navguard.StateBlocked, started, fmt.Errorf("resolve %q: %w", target, err))
		}
		nav.To = m

		d := n.guard.Run(ctx, nav.ID, m, nav.From)
		if n.seq.Load() != seq {
			return n.abandon(span, nav, started)
		}

		switch d.Verdict {
		case navguard.VerdictRedirect:
			nav.RedirectTo = d.Path
			if !n.follow {
				return n.finish(span, nav, navguard.StateRedirected, started, nil)
			}
			if len(nav.Hops) >= n.table.MaxRedirects() {
				nav.Reason = "redirect limit reached"
				return n.finish(span, nav, navguard.StateBlocked, started, fmt.Errorf("%w: limit %d", ErrTooManyRedirects, n.table.MaxRedirects()))
			}
			nav.Hops = append(nav.Hops, d.Path)
			target = d.Path
			continue

		case navguard.VerdictAllow:
			page, err := n.table.Load(ctx, m.Entry)
			n.metrics.pageLoad(m.Entry.Name, err)
			if err != nil {
				nav.Reason = "page failed to load"
				return n.finish(span, nav, navguard.StateBlocked, started, err)
			}

			n.mu.Lock()
			if n.seq.Load() != seq {
				n.mu.Unlock()
				return n.abandon(span, nav, started)
			}
			n.current = m
			n.mu.Unlock()

			nav.Page = page
			nav.Committed = true
			state := navguard.StateAllowed
			if len(nav.Hops) > 0 {
				state = navguard.StateRedirected
			}
			return n.finish(span, nav, state, started, nil)

		default:
			nav.Reason = d.Reason
			return n.finish(span, nav, navguard.StateBlocked, started, nil)
		}
	}
}

func (n *Navigator) abandon(span trace.Span, nav Navigation, started time.Time) (Navigation, error) {
	n.metrics.supersede()
	nav.Reason = "superseded"
	nav.Page = routetable.Page{}
	n.log.Debug("navigation superseded",
		zap.String("navigation_id", nav.ID),
		zap.String("requested", nav.Requested))
	return n.finish(span, nav, navguard.StateBlocked, started, ErrSuperseded)
}

func (n *Navigator) finish(span trace.Span, nav Navigation, state navguard.State, started time.Time, err error) (Navigation, error) {
	nav.State = state
	route := nav.To.Name()

	n.metrics.observe(state, route, started)
	span.SetAttributes(
		attribute.String("navigation.state", string(state)),
		attribute.String("navigation.to", route),
	)

	if err != nil && !errors.Is(err, ErrSuperseded) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.log.Warn("navigation failed",
			zap.String("navigation_id", nav.ID),
			zap.String("requested", nav.Requested),
			zap.String("to", route),
			zap.Error(err))
		return nav, err
	}

	n.log.Debug("navigation finished",
		zap.String("navigation_id", nav.ID),
		zap.String("state", string(state)),
		zap.String("to", route),
		zap.String("redirect_to", nav.RedirectTo))
	return nav, err
}
