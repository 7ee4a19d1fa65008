// Package routetable holds the immutable path → page table that every
// navigation is resolved against.
//
// Patterns are made of literal segments ("about"), named parameters (":id")
// and a trailing catch-all ("*rest") that swallows every remaining segment.
// A table must end with a root catch-all so that every path resolves to
// exactly one entry.
package routetable

import "context"

// Page describes a renderable page once its component has been resolved.
type Page struct {
	Name     string // stable page identifier
	Template string // template name used by the renderer
}

// Loader resolves a deferred page component.
type Loader func(ctx context.Context) (Page, error)

// Component is either a direct page reference or a deferred loader.
// The zero value is "no component" (valid only for redirect entries).
type Component struct {
	page   *Page
	loader Loader
}

// Direct wraps an already-available page.
func Direct(p Page) Component {
	return Component{page: &p}
}

// Lazy wraps a loader that is run on first navigation and then memoized.
func Lazy(l Loader) Component {
	return Component{loader: l}
}

// IsZero reports whether no component was set.
func (c Component) IsZero() bool {
	return c.page == nil && c.loader == nil
}

// IsLazy reports whether the component is loaded on demand.
func (c Component) IsLazy() bool {
	return c.page == nil && c.loader != nil
}

// Meta is per-route metadata.
type Meta struct {
	Title        string // composed into the document title
	RequiresAuth bool   // only signed-in users may navigate here
	GuestOnly    bool   // signed-in users are sent elsewhere (sign-in, sign-up)
}

// Entry maps a path pattern to a page.
type Entry struct {
	Path      string
	Name      string
	Component Component
	Redirect  string // when set, the entry never renders and resolution continues at this path
	Meta      Meta
}

// IsRedirect reports whether the entry re-dispatches resolution.
func (e Entry) IsRedirect() bool {
	return e.Redirect != ""
}

// Match is the result of resolving a concrete path.
type Match struct {
	Entry  *Entry            // concrete, non-redirect entry; owned by the table, do not modify
	Path   string            // canonical path that matched Entry
	Params map[string]string // named params and the catch-all value

	// RedirectedFrom is the originally requested path when one or more
	// redirect entries were followed; empty otherwise.
	RedirectedFrom string
	// Redirects lists every path that was redirected away from, in order.
	Redirects []string
}

// Name returns the matched route name, or "" for a nil match.
func (m *Match) Name() string {
	if m == nil || m.Entry == nil {
		return ""
	}
	return m.Entry.Name
}

// Redirected reports whether at least one redirect entry was followed.
func (m *Match) Redirected() bool {
	return m != nil && len(m.Redirects) > 0
}
