package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversions_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total number of conversions by target format and outcome code.",
		},
		[]string{"format", "status"},
	)

	ConversionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversions_duration_seconds",
			Help:    "Time spent executing a single conversion.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"format"},
	)

	AdmissionDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_admission_denied_total",
			Help: "Requests refused before processing, by reason code.",
		},
		[]string{"reason"},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conversions_batch_size",
			Help:    "Number of files submitted per batch.",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ConversionsTotal,
		ConversionDuration,
		AdmissionDeniedTotal,
		BatchSize,
	)
}
