// Package navigation provides helpers for safe post-form redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// ReturnOptions configures ReturnURL.
type ReturnOptions struct {
	// Fallback is used when the request carries no acceptable return URL.
	Fallback string

	// ExcludedPrefixes are paths never returned to, such as the form that
	// is redirecting. They prevent loops back to action pages.
	ExcludedPrefixes []string
}

// AuthReturn is used after sign-in: never bounce back to an auth form.
var AuthReturn = ReturnOptions{
	Fallback:         "/home",
	ExcludedPrefixes: []string{"/sign-in", "/sign-up", "/sign-out"},
}

// ReturnURL extracts and validates the "return" URL from the query string or
// the form. Only local paths are accepted (no open redirects).
func ReturnURL(r *http.Request, opts ReturnOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret == "" {
		return opts.Fallback
	}
	for _, p := range opts.ExcludedPrefixes {
		if ret == p || strings.HasPrefix(ret, p+"/") || strings.HasPrefix(ret, p+"?") {
			return opts.Fallback
		}
	}
	return ret
}
