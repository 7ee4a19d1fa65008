package navguard

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"go.uber.org/zap"
)

// TitleDelimiter separates the application name from the page title.
const TitleDelimiter = " | "

// TitleSink receives the composed document title.
type TitleSink interface {
	SetTitle(title string)
}

// TitleFunc adapts a function to TitleSink.
type TitleFunc func(title string)

func (f TitleFunc) SetTitle(title string) { f(title) }

// FormatTitle composes "<app> | <title>". An empty title yields the app name.
func FormatTitle(appName, title string) string {
	if title == "" {
		return appName
	}
	return appName + TitleDelimiter + title
}

// Transition is the diagnostic record emitted once per guard run.
type Transition struct {
	NavigationID string
	From         string // route name, "" on the initial load
	To           string // route name
	Path         string // canonical target path
	At           time.Time
}

// Recorder is an observability sink for transitions.
type Recorder interface {
	RecordTransition(ctx context.Context, t Transition)
}

// Config configures a Guard.
type Config struct {
	AppName  string
	Title    TitleSink           // required
	Policy   AuthorizationPolicy // nil means open navigation
	Recorder Recorder            // optional, in addition to the log line
	Log      *zap.Logger
}

// Guard runs before a transition is committed.
type Guard struct {
	appName  string
	title    TitleSink
	policy   AuthorizationPolicy
	recorder Recorder
	log      *zap.Logger
	now      func() time.Time
}

// New builds a Guard. A nil logger is replaced with a no-op logger.
func New(cfg Config) *Guard {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	title := cfg.Title
	if title == nil {
		title = TitleFunc(func(string) {})
	}
	return &Guard{
		appName:  cfg.AppName,
		title:    title,
		policy:   cfg.Policy,
		recorder: cfg.Recorder,
		log:      log,
		now:      time.Now,
	}
}

// Run guards the transition from → to. from is nil on the initial load.
//
// It logs and records the transition, sets the title, then returns the
// policy's decision. A policy error, panic, malformed decision or context
// cancellation yields Deny. Run itself never panics.
func (g *Guard) Run(ctx context.Context, navID string, to, from *routetable.Match) Decision {
	if to == nil || to.Entry == nil {
		g.log.Error("navigation guard called without a target", zap.String("navigation_id", navID))
		return Deny("no target route")
	}

	fromName := from.Name()
	g.log.Info("navigating",
		zap.String("navigation_id", navID),
		zap.String("from", fromName),
		zap.String("to", to.Entry.Name),
		zap.String("path", to.Path))

	if g.recorder != nil {
		g.recorder.RecordTransition(ctx, Transition{
			NavigationID: navID,
			From:         fromName,
			To:           to.Entry.Name,
			Path:         to.Path,
			At:           g.now().UTC(),
		})
	}

	g.title.SetTitle(FormatTitle(g.appName, to.Entry.Meta.Title))

	if g.policy == nil {
		return Allow()
	}

	d, err := g.evaluate(ctx, to, from)
	if err != nil {
		g.log.Warn("authorization check failed; blocking navigation",
			zap.String("navigation_id", navID),
			zap.String("to", to.Entry.Name),
			zap.Error(err))
		return Deny(err.Error())
	}
	if !d.Valid() {
		g.log.Warn("authorization check returned an invalid decision; blocking navigation",
			zap.String("navigation_id", navID),
			zap.String("verdict", string(d.Verdict)),
			zap.String("path", d.Path))
		return Deny("invalid decision")
	}
	return d
}

type evalResult struct {
	d   Decision
	err error
}

// evaluate runs the policy on its own goroutine so a cancelled context can
// end the wait. The result channel is buffered so the goroutine always exits.
func (g *Guard) evaluate(ctx context.Context, to, from *routetable.Match) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	done := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evalResult{err: fmt.Errorf("authorization policy panicked: %v", r)}
			}
		}()
		d, err := g.policy.Evaluate(ctx, to, from)
		done <- evalResult{d: d, err: err}
	}()

	select {
	case res := <-done:
		return res.d, res.err
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}
