package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomePushed    = "pushed"
	outcomeNotPushed = "not_pushed"
	outcomeCached    = "cached"
	outcomeError     = "error"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cacheLen prometheus.GaugeFunc
}

// newMetrics registers the service metrics with r; a nil r leaves them
// unregistered.
func newMetrics(r prometheus.Registerer, cacheLen func() float64) *metrics {
	return &metrics{
		requests: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "pushdown_compile_requests_total",
			Help: "Total number of compile requests by backend and outcome.",
		}, []string{"backend", "outcome"}),
		duration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pushdown_compile_duration_seconds",
			Help:    "Time taken to compile a filter, excluding cache hits.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"backend"}),
		cacheLen: promauto.With(r).NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pushdown_compile_cache_entries",
			Help: "Number of compiled filters held in the cache.",
		}, cacheLen),
	}
}

func (m *metrics) observe(backend string, res *CompileResponse, err error) {
	outcome := outcomeError
	switch {
	case err != nil:
	case res.Cached:
		outcome = outcomeCached
	case res.Result.Pushed:
		outcome = outcomePushed
	default:
		outcome = outcomeNotPushed
	}
	m.requests.WithLabelValues(backend, outcome).Inc()
}
