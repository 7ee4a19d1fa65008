// internal/app/features/pages/navigate.go
package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/navigator"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /, GET /*                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Serve runs one navigation for r.URL.Path and writes its outcome:
//   - route-table redirect: 303 to the canonical path
//   - allowed: the page (404 for the not-found route)
//   - guard redirect: 303 to the guard's target
//   - blocked: the forbidden page with 403
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	m, err := h.Table.Resolve(r.URL.Path)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "route resolution failed", err, "This page could not be loaded.", site.HomePath)
		return
	}
	if m.Redirected() {
		target := m.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	var title string
	guard := navguard.New(navguard.Config{
		AppName:  site.AppName,
		Title:    navguard.TitleFunc(func(t string) { title = t }),
		Policy:   h.Policy,
		Recorder: h.Recorder,
		Log:      h.Log,
	})
	nav := navigator.New(h.Table, guard,
		navigator.WithLogger(h.Log),
		navigator.WithMetrics(h.Metrics),
		navigator.WithCurrent(h.lastRoute(r)),
		navigator.WithFollowRedirects(false),
	)

	res, err := nav.Navigate(r.Context(), r.URL.Path)
	switch res.State {
	case navguard.StateRedirected:
		http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)

	case navguard.StateAllowed:
		h.rememberRoute(w, r, res.To.Name())
		status := http.StatusOK
		if res.To.Name() == site.RouteNotFound {
			status = http.StatusNotFound
		}
		h.renderPage(w, r, status, res.Page.Template, newPageVM(r, title, res.To))

	default:
		switch {
		case err == nil:
			h.ErrLog.RenderForbidden(w, r, "", "")
		case errors.Is(err, context.Canceled):
			// client went away; nothing to write
		default:
			h.ErrLog.LogServerError(w, r, "navigation failed", err, "This page could not be loaded.", site.HomePath)
		}
	}
}

// lastRoute rebuilds the session's committed route so the guard sees a
// proper "from". Unknown or missing names mean an initial load.
func (h *Handler) lastRoute(r *http.Request) *routetable.Match {
	if h.SessionMgr == nil {
		return nil
	}
	name := h.SessionMgr.LastRoute(r)
	if name == "" {
		return nil
	}
	e, ok := h.Table.Lookup(name)
	if !ok {
		return nil
	}
	return &routetable.Match{Entry: e, Path: e.Path}
}

func (h *Handler) rememberRoute(w http.ResponseWriter, r *http.Request, name string) {
	if h.SessionMgr == nil {
		return
	}
	if err := h.SessionMgr.RememberRoute(w, r, name); err != nil {
		h.Log.Warn("remember route failed", zap.String("route", name), zap.Error(err))
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, tmpl string, vm PageVM) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.Render(w, r, tmpl, vm)
}
