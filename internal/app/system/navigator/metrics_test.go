package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsTerminalStates(t *testing.T) {
	tbl, err := routetable.New([]routetable.Entry{
		{Path: "/home", Name: "home", Component: routetable.Direct(routetable.Page{Name: "home", Template: "home"})},
		{Path: "/broken", Name: "broken", Component: routetable.Lazy(func(context.Context) (routetable.Page, error) {
			return routetable.Page{}, errors.New("missing")
		})},
		{Path: "/*rest", Name: "not-found", Component: routetable.Direct(routetable.Page{Name: "not-found", Template: "not-found"})},
	})
	if err != nil {
		t.Fatalf("routetable.New failed: %v", err)
	}

	m := NewMetrics("test", prometheus.NewRegistry())
	nav := New(tbl, navguard.New(navguard.Config{}), WithMetrics(m))

	_, _ = nav.Navigate(context.Background(), "/home")
	_, _ = nav.Navigate(context.Background(), "/home")
	_, _ = nav.Navigate(context.Background(), "/broken")

	if got := testutil.ToFloat64(m.navigations.WithLabelValues(string(navguard.StateAllowed), "home")); got != 2 {
		t.Errorf("expected 2 allowed home navigations, got %v", got)
	}
	if got := testutil.ToFloat64(m.navigations.WithLabelValues(string(navguard.StateBlocked), "broken")); got != 1 {
		t.Errorf("expected 1 blocked broken navigation, got %v", got)
	}
	if got := testutil.ToFloat64(m.pageLoads.WithLabelValues("broken", "error")); got != 1 {
		t.Errorf("expected 1 failed page load, got %v", got)
	}
	if got := testutil.ToFloat64(m.superseded); got != 0 {
		t.Errorf("expected no superseded navigations, got %v", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.supersede()
	m.pageLoad("home", nil)
}
