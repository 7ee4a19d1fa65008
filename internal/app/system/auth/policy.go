package auth

import (
	"context"
	"net/url"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
)

// Policy is the session-based navigation policy:
//   - routes with RequiresAuth send anonymous users to SignInPath?return=<path>
//   - GuestOnly routes send signed-in users to HomePath
//
// Everything else is allowed.
type Policy struct {
	SignInPath string
	HomePath   string
}

// DefaultPolicy uses the site's sign-in and home paths.
var DefaultPolicy = Policy{SignInPath: "/sign-in", HomePath: "/home"}

var _ navguard.AuthorizationPolicy = Policy{}

// Evaluate implements navguard.AuthorizationPolicy. The user is read from ctx.
func (p Policy) Evaluate(ctx context.Context, to, _ *routetable.Match) (navguard.Decision, error) {
	if err := ctx.Err(); err != nil {
		return navguard.Decision{}, err
	}
	_, signedIn := UserFromContext(ctx)
	meta := to.Entry.Meta

	switch {
	case meta.RequiresAuth && !signedIn:
		return navguard.RedirectTo(p.SignInPath + "?return=" + url.QueryEscape(to.Path)), nil
	case meta.GuestOnly && signedIn:
		return navguard.RedirectTo(p.HomePath), nil
	}
	return navguard.Allow(), nil
}
