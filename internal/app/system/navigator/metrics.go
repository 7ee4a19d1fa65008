package navigator

import (
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for navigations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	superseded  prometheus.Counter
	pageLoads   *prometheus.CounterVec
}

// NewMetrics registers the navigation collectors with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "acme"
	}
	factory := promauto.With(reg)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "total",
			Help:      "Navigations by terminal state and destination route.",
		}, []string{"state", "route"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "duration_seconds",
			Help:      "Time from navigation start to terminal state.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"state"}),

		superseded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "superseded_total",
			Help:      "Navigations abandoned because a newer navigation started.",
		}),

		pageLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "navigation",
			Name:      "page_loads_total",
			Help:      "Page component resolutions by route and result.",
		}, []string{"route", "result"}),
	}
}

func (m *Metrics) observe(state navguard.State, route string, started time.Time) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(string(state), route).Inc()
	m.duration.WithLabelValues(string(state)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) supersede() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

func (m *Metrics) pageLoad(route string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pageLoads.WithLabelValues(route, result).Inc()
}
