package internal

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(
		redirectRequests,
		callbackRequests,
		callbackDuration,
	)
}

var (
	// result: ok|error
	redirectRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpay_redirect_requests_total",
			Help: "Count of signed pay page URLs by result.",
		},
		[]string{"result"},
	)

	// outcome: success|declined|inauthentic|error
	callbackRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpay_callback_requests_total",
			Help: "Count of gateway callbacks by verification outcome.",
		},
		[]string{"outcome"},
	)

	callbackDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webpay_callback_duration_seconds",
			Help:    "Duration of callback verification in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)
)
