package navguard

import (
	"context"
	"sync"

	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
)

// Next is handed to a Check so it can resolve the navigation in the
// allow / redirect / block style. Only the first call counts.
type Next struct {
	once     sync.Once
	decision Decision
	resolved bool
}

// Allow resolves the navigation as allowed.
func (n *Next) Allow() { n.set(Allow()) }

// Redirect resolves the navigation as a redirect to path.
func (n *Next) Redirect(path string) { n.set(RedirectTo(path)) }

// Block resolves the navigation as blocked.
func (n *Next) Block() { n.set(Deny("blocked by check")) }

func (n *Next) set(d Decision) {
	n.once.Do(func() {
		n.decision = d
		n.resolved = true
	})
}

// Check is a callback-style authentication check. It must resolve through
// next before returning; returning without a call blocks the navigation.
type Check func(ctx context.Context, to, from *routetable.Match, next *Next) error

// FromCheck adapts a Check to an AuthorizationPolicy.
func FromCheck(check Check) AuthorizationPolicy {
	return PolicyFunc(func(ctx context.Context, to, from *routetable.Match) (Decision, error) {
		next := &Next{}
		if err := check(ctx, to, from, next); err != nil {
			return Decision{}, err
		}
		// Freeze: a call arriving after this point is ignored.
		next.once.Do(func() {})
		if !next.resolved {
			return Deny("check did not resolve"), nil
		}
		return next.decision, nil
	})
}
