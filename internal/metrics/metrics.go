package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CheckoutMetrics struct {
	Checkouts *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

// NewCheckoutMetrics registers and returns the engine's metrics. Checkout
// outcomes are labelled with the wire error kind ("ok" for success).
func NewCheckoutMetrics() *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "checkout",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	prometheus.MustRegister(checkouts, latency)
	return &CheckoutMetrics{Checkouts: checkouts, LatencyMS: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
