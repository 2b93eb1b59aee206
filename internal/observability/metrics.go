package observability

import (
	"net/http"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	bodiesTotal         *prometheus.CounterVec
	linesTotal          *prometheus.CounterVec
	patternMatchesTotal *prometheus.CounterVec
	rateLimitedTotal    prometheus.Counter
	sanitizeDuration    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bodiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "bodyscrub_bodies_total", Help: "Total sanitized bodies"},
			[]string{"source", "mode", "outcome"},
		),
		linesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "bodyscrub_lines_total", Help: "Total classified lines"},
			[]string{"source", "class"},
		),
		patternMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "bodyscrub_pattern_matches_total", Help: "Total pattern matches"},
			[]string{"pattern", "category"},
		),
		rateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "bodyscrub_ratelimited_total", Help: "Total rate limited requests"},
		),
		sanitizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bodyscrub_sanitize_duration_seconds",
				Help:    "Sanitize duration in seconds",
				Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"source"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bodiesTotal,
		m.linesTotal,
		m.patternMatchesTotal,
		m.rateLimitedTotal,
		m.sanitizeDuration,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Observe records one sanitized body.
func (m *Metrics) Observe(record logging.Record) {
	if m == nil {
		return
	}

	source := sourceLabel(record.Source)
	m.bodiesTotal.WithLabelValues(source, record.Mode, record.Outcome).Inc()
	m.sanitizeDuration.WithLabelValues(source).Observe((time.Duration(record.DurationUS) * time.Microsecond).Seconds())

	if record.CutoffLine >= 0 {
		m.linesTotal.WithLabelValues(source, "cutoff").Inc()
	}
	m.addLines(source, "keep", record.Kept)
	m.addLines(source, "drop", record.Dropped)
	m.addLines(source, "spam", record.Spam)
	m.addLines(source, "after_cutoff", record.AfterCutoff)

	for _, match := range record.Matches {
		m.patternMatchesTotal.WithLabelValues(match.PatternID, match.Category).Inc()
	}
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitedTotal.Inc()
}

func (m *Metrics) addLines(source, class string, n int) {
	if n <= 0 {
		return
	}
	m.linesTotal.WithLabelValues(source, class).Add(float64(n))
}

func sourceLabel(source string) string {
	if source == "" {
		return "default"
	}
	return source
}
