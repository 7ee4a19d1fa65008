// Package navguard implements the guard that runs before every route
// transition is committed: it records the transition, sets the document
// title, and asks an AuthorizationPolicy whether to allow, redirect or block.
package navguard

import (
	"context"

	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
)

// Verdict is the kind of decision a policy returns.
type Verdict string

const (
	VerdictAllow    Verdict = "allow"
	VerdictRedirect Verdict = "redirect"
	VerdictDeny     Verdict = "deny"
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Verdict Verdict
	Path    string // redirect target, only for VerdictRedirect
	Reason  string // optional diagnostic, mostly for VerdictDeny
}

// Allow lets the navigation proceed.
func Allow() Decision {
	return Decision{Verdict: VerdictAllow}
}

// RedirectTo abandons the navigation in favour of path.
func RedirectTo(path string) Decision {
	return Decision{Verdict: VerdictRedirect, Path: path}
}

// Deny blocks the navigation; the active route does not change.
func Deny(reason string) Decision {
	return Decision{Verdict: VerdictDeny, Reason: reason}
}

// Valid reports whether the decision is well formed.
func (d Decision) Valid() bool {
	switch d.Verdict {
	case VerdictAllow, VerdictDeny:
		return true
	case VerdictRedirect:
		return d.Path != ""
	}
	return false
}

// State is the per-attempt navigation state.
type State string

const (
	StatePending    State = "pending"
	StateAllowed    State = "allowed"
	StateRedirected State = "redirected"
	StateBlocked    State = "blocked"
)

// State maps the decision to the terminal navigation state it produces.
func (d Decision) State() State {
	switch d.Verdict {
	case VerdictAllow:
		return StateAllowed
	case VerdictRedirect:
		return StateRedirected
	}
	return StateBlocked
}

// AuthorizationPolicy decides whether a navigation from one route to another
// may proceed. from is nil on the initial load.
type AuthorizationPolicy interface {
	Evaluate(ctx context.Context, to, from *routetable.Match) (Decision, error)
}

// PolicyFunc adapts a function to AuthorizationPolicy.
type PolicyFunc func(ctx context.Context, to, from *routetable.Match) (Decision, error)

func (f PolicyFunc) Evaluate(ctx context.Context, to, from *routetable.Match) (Decision, error) {
	return f(ctx, to, from)
}

// AllowAll is a policy that never objects.
var AllowAll = PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (Decision, error) {
	return Allow(), nil
})

// DenyAll is a policy that blocks every navigation.
var DenyAll = PolicyFunc(func(context.Context, *routetable.Match, *routetable.Match) (Decision, error) {
	return Deny("navigation disabled"), nil
})
