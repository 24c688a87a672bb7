package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracker_comparer"

// Recorder holds the application's Prometheus collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	resolutions   *prometheus.CounterVec
	attempts      *prometheus.CounterVec
	comparisons   prometheus.Counter
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracker_fetch_total",
			Help:      "Started-games fetches per service and outcome status.",
		}, []string{"service", "status"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tracker_fetch_duration_seconds",
			Help:      "Duration of started-games fetches per service.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"service"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "title_resolution_total",
			Help:      "Authoritative record resolutions by fallback step.",
		}, []string{"source"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_attempts_total",
			Help:      "Outbound HTTP attempts per host and outcome.",
		}, []string{"host", "outcome"}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Completed comparison runs.",
		}),
	}

	reg.MustRegister(
		r.fetches,
		r.fetchDuration,
		r.resolutions,
		r.attempts,
		r.comparisons,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveFetch records one adapter invocation.
func (r *Recorder) ObserveFetch(service, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(service, status).Inc()
	r.fetchDuration.WithLabelValues(service).Observe(d.Seconds())
}

// ObserveResolution records which fallback step produced an authoritative record.
func (r *Recorder) ObserveResolution(source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(source).Inc()
}

// ObserveAttempt records one outbound HTTP attempt.
func (r *Recorder) ObserveAttempt(host, outcome string) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(host, outcome).Inc()
}

// ObserveComparison records a finished comparison run.
func (r *Recorder) ObserveComparison() {
	if r == nil {
		return
	}
	r.comparisons.Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler returns the scrape handler for the registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
