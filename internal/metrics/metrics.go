// Package metrics provides Prometheus instrumentation for the ShutterPro
// server. It exposes counters for login outcomes and invoice dispatch, and a
// histogram for request latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LoginsTotal counts login attempts, labeled by outcome:
	// "success", "rejected", or "error".
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shutterpro_logins_total",
		Help: "Total number of login attempts",
	}, []string{"outcome"}) // outcome = "success", "rejected", "error"

	// InvoicesDispatched counts invoice emails, labeled by result:
	// "sent" or "failed".
	InvoicesDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shutterpro_invoices_dispatched_total",
		Help: "Total number of invoice emails dispatched",
	}, []string{"result"}) // result = "sent", "failed"

	// RequestDuration records HTTP handler latency in seconds per route.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shutterpro_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		LoginsTotal,
		InvoicesDispatched,
		RequestDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
