package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Public form submissions by form and outcome",
		},
		[]string{"form", "outcome"},
	)

	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filestore_uploads_total",
			Help: "Attachment uploads by outcome kind",
		},
		[]string{"kind"},
	)

	uploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filestore_upload_duration_seconds",
			Help:    "Attachment upload duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outbound emails by template and result",
		},
		[]string{"template", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status class",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	registry.MustRegister(
		submissionsTotal,
		uploadsTotal,
		uploadDuration,
		emailsTotal,
		httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncSubmission counts a public form submission outcome ("created", "rejected", "failed").
func IncSubmission(form, outcome string) {
	submissionsTotal.WithLabelValues(form, outcome).Inc()
}

// ObserveUpload records one upload attempt; kind is "ok" or a filestore error kind.
func ObserveUpload(kind string, seconds float64) {
	uploadsTotal.WithLabelValues(kind).Inc()
	if seconds < 0 {
		seconds = 0
	}
	uploadDuration.Observe(seconds)
}

// IncEmail counts an email attempt.
func IncEmail(template string, success bool) {
	result := "sent"
	if !success {
		result = "failed"
	}
	emailsTotal.WithLabelValues(template, result).Inc()
}

// IncHTTPRequest counts a completed request.
func IncHTTPRequest(method, route, statusClass string) {
	httpRequests.WithLabelValues(method, route, statusClass).Inc()
}

// Registry exposes the registry for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
