package routetable

import (
	"context"
	"fmt"
)

// Load resolves the page for e. Direct components return immediately.
// Lazy components are loaded once per route name and cached for the life
// of the table. Concurrent first loads share a single loader call, and a
// failed load is retried on the next navigation.
func (t *Table) Load(ctx context.Context, e *Entry) (Page, error) {
	if e == nil {
		return Page{}, fmt.Errorf("routetable: load: nil entry")
	}
	own, ok := t.Lookup(e.Name)
	if !ok {
		return Page{}, fmt.Errorf("routetable: load: unknown route %q", e.Name)
	}
	if own.IsRedirect() {
		return Page{}, fmt.Errorf("routetable: load: route %q is a redirect", own.Name)
	}

	c := own.Component
	if !c.IsLazy() {
		return *c.page, nil
	}

	if v, ok := t.pages.Load(own.Name); ok {
		return v.(Page), nil
	}

	v, err, _ := t.loads.Do(own.Name, func() (any, error) {
		if v, ok := t.pages.Load(own.Name); ok {
			return v, nil
		}
		p, err := c.loader(ctx)
		if err != nil {
			return nil, err
		}
		t.pages.Store(own.Name, p)
		return p, nil
	})
	if err != nil {
		return Page{}, fmt.Errorf("routetable: load %q: %w", own.Name, err)
	}
	return v.(Page), nil
}

// Loaded reports whether the page for the named route is available without
// running a loader.
func (t *Table) Loaded(name string) bool {
	e, ok := t.Lookup(name)
	if !ok || e.IsRedirect() {
		return false
	}
	if !e.Component.IsLazy() {
		return true
	}
	_, ok = t.pages.Load(name)
	return ok
}
