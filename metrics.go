package rdme

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes optional Prometheus instrumentation for a running
// Session. It is nil-safe: a Session with no Metrics attached simply
// skips every update site.
type Metrics struct {
	iterations         prometheus.Counter
	simulatedTime      prometheus.Gauge
	samplesEmitted     prometheus.Counter
	selectionFallbacks prometheus.Counter
}

// NewMetrics constructs a Metrics registered under reg. Pass a fresh
// prometheus.NewRegistry() per Session to avoid collisions when running
// more than one Session in the same process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdme_iterations_total",
			Help: "Number of kernel Iterate() calls completed.",
		}),
		simulatedTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdme_simulated_time",
			Help: "Current simulated time t.",
		}),
		samplesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdme_samples_emitted_total",
			Help: "Number of trajectory samples recorded.",
		}),
		selectionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdme_gillespie_selection_fallbacks_total",
			Help: "Number of times Gillespie event selection fell through to its floating-point rounding clamp.",
		}),
	}
	reg.MustRegister(m.iterations, m.simulatedTime, m.samplesEmitted, m.selectionFallbacks)
	return m
}
