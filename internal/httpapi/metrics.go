package httpapi

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"neopir/internal/report"
)

const metricsNamespace = "neopir"

// Metrics exports scoring activity to Prometheus.
type Metrics struct {
	submissions     *prometheus.CounterVec
	levels          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the API collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "score_submissions_total",
			Help:      "Score submissions by outcome.",
		}, []string{"outcome"}),
		levels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "dimension_levels_total",
			Help:      "Interpretation levels returned per dimension.",
		}, []string{"dimension", "level"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	for _, c := range []prometheus.Collector{m.submissions, m.levels, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register api metric: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) recordSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordReport(r *report.Report) {
	if m == nil || r == nil {
		return
	}
	for _, d := range r.Dimensions {
		m.levels.WithLabelValues(d.Code, string(d.Level)).Inc()
	}
}

func (m *Metrics) observe(route string, started time.Time) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}
