package preview

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the preview sessions. A nil
// *Metrics records nothing.
type Metrics struct {
	Refreshes      *prometheus.CounterVec
	StaleRefreshes prometheus.Counter
	RefreshSeconds prometheus.Histogram
	Triggers       *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates the collectors. They still need to be registered.
func NewMetrics() *Metrics {
	return &Metrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specpreview_refreshes_total",
			Help: "Completed refreshes applied to a preview, by rendered view kind",
		}, []string{"view"}),
		StaleRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "specpreview_refresh_stale_total",
			Help: "Refreshes dropped because a newer refresh had already been applied",
		}),
		RefreshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "specpreview_refresh_duration_seconds",
			Help:    "Time spent aggregating and rendering the specs folder",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specpreview_triggers_total",
			Help: "Events that started a refresh, by source",
		}, []string{"source"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "specpreview_sessions_active",
			Help: "Number of preview sessions currently active",
		}),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Refreshes,
		m.StaleRefreshes,
		m.RefreshSeconds,
		m.Triggers,
		m.ActiveSessions,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) applied(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(kind).Inc()
	m.RefreshSeconds.Observe(elapsed.Seconds())
}

func (m *Metrics) stale() {
	if m == nil {
		return
	}
	m.StaleRefreshes.Inc()
}

func (m *Metrics) trigger(source string) {
	if m == nil {
		return
	}
	m.Triggers.WithLabelValues(source).Inc()
}

func (m *Metrics) sessionDelta(delta float64) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(delta)
}
