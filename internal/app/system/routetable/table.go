// internal/app/system/routetable/table.go
package routetable

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultMaxRedirects bounds redirect chains when no option overrides it.
const DefaultMaxRedirects = 8

// Table is an ordered, validated and immutable set of route entries.
// It is safe for concurrent use.
type Table struct {
	entries      []Entry
	patterns     []pattern
	byName       map[string]int
	maxRedirects int

	pages sync.Map // route name → Page, for resolved lazy components
	loads singleflight.Group
}

// Option configures a Table.
type Option func(*Table)

// WithMaxRedirects sets the redirect chain bound. Values below 1 are ignored.
func WithMaxRedirects(n int) Option {
	return func(t *Table) {
		if n > 0 {
			t.maxRedirects = n
		}
	}
}

// New validates entries and builds a Table.
//
// It fails with *ConfigurationError when a name is missing or repeated, a
// path is repeated or malformed, an entry has both (or neither) a component
// and a redirect, no root catch-all exists, a catch-all is not ordered after
// every other entry, or a redirect chain loops or exceeds the bound.
func New(entries []Entry, opts ...Option) (*Table, error) {
	t := &Table{
		entries:      make([]Entry, len(entries)),
		patterns:     make([]pattern, len(entries)),
		byName:       make(map[string]int, len(entries)),
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(t)
	}
	copy(t.entries, entries)

	paths := make(map[string]string, len(entries))
	hasRootCatchAll := false
	seenCatchAll := ""

	for i, e := range t.entries {
		label := e.Name
		if label == "" {
			label = e.Path
		}

		if e.Name == "" {
			return nil, configErr(label, ErrInvalidEntry, "route name is empty")
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, configErr(label, ErrDuplicateName, "name already used")
		}
		if other, dup := paths[e.Path]; dup {
			return nil, configErr(label, ErrDuplicatePath, "path %q already used by %q", e.Path, other)
		}

		p, err := parsePattern(e.Path)
		if err != nil {
			return nil, configErr(label, err, "%v", err)
		}

		switch {
		case e.IsRedirect() && !e.Component.IsZero():
			return nil, configErr(label, ErrInvalidEntry, "redirect entries cannot have a component")
		case !e.IsRedirect() && e.Component.IsZero():
			return nil, configErr(label, ErrInvalidEntry, "entry needs a component or a redirect")
		}

		if p.catchAll() {
			if seenCatchAll == "" {
				seenCatchAll = e.Name
			}
			if p.rootCatchAll() {
				if e.IsRedirect() {
					return nil, configErr(label, ErrInvalidEntry, "root catch-all cannot redirect")
				}
				hasRootCatchAll = true
			}
		} else if seenCatchAll != "" {
			return nil, configErr(label, ErrInvalidEntry, "must be ordered before catch-all route %q", seenCatchAll)
		}

		t.patterns[i] = p
		t.byName[e.Name] = i
		paths[e.Path] = e.Name
	}

	if !hasRootCatchAll {
		return nil, configErr("", ErrNoCatchAll, "no root catch-all route (e.g. \"/*pathMatch\")")
	}

	for i := range t.entries {
		e := &t.entries[i]
		if !e.IsRedirect() {
			continue
		}
		if canonicalPath(e.Redirect) != e.Redirect {
			return nil, configErr(e.Name, ErrInvalidEntry, "redirect target %q is not a canonical absolute path", e.Redirect)
		}
		if _, err := t.follow(e.Redirect, []string{e.Path}); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Resolve returns the single best-matching concrete entry for path,
// following redirect entries transitively.
func (t *Table) Resolve(path string) (*Match, error) {
	return t.follow(canonicalPath(path), nil)
}

// follow resolves p, carrying the redirect hops already taken.
func (t *Table) follow(p string, hops []string) (*Match, error) {
	visited := make(map[string]bool, len(hops)+1)
	for _, h := range hops {
		visited[h] = true
	}

	for {
		idx, params := t.best(p)
		e := &t.entries[idx]

		if !e.IsRedirect() {
			m := &Match{
				Entry:  e,
				Path:   p,
				Params: params,
			}
			if len(hops) > 0 {
				m.RedirectedFrom = hops[0]
				m.Redirects = hops
			}
			return m, nil
		}

		if visited[p] {
			return nil, configErr(e.Name, ErrRedirectLoop, "redirect cycle through %q", p)
		}
		if len(hops) >= t.maxRedirects {
			return nil, configErr(e.Name, ErrRedirectLoop, "redirect chain exceeds %d hops", t.maxRedirects)
		}
		visited[p] = true
		hops = append(hops, p)
		p = e.Redirect
	}
}

// best picks the most specific matching entry. The root catch-all
// guarantees at least one match.
func (t *Table) best(p string) (int, map[string]string) {
	parts := splitPath(p)

	bestIdx := -1
	var bestRank []segKind
	var bestParams map[string]string

	for i, pat := range t.patterns {
		params, ok := pat.match(parts)
		if !ok {
			continue
		}
		r := pat.rank(len(parts))
		if bestIdx < 0 || moreSpecific(r, bestRank) {
			bestIdx, bestRank, bestParams = i, r, params
		}
	}

	return bestIdx, bestParams
}

// Lookup returns the entry registered under name.
func (t *Table) Lookup(name string) (*Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.entries[i], true
}

// Entries returns a copy of the table in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// MaxRedirects returns the redirect chain bound.
func (t *Table) MaxRedirects() int {
	return t.maxRedirects
}
