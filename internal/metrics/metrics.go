// Package metrics exposes Prometheus collectors for HTTP traffic and quiz
// completions.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CompletionsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_completions_submitted_total",
			Help: "Completions accepted from respondents",
		},
	)

	CompletionScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_completion_correct_ratio",
			Help:    "Share of correctly answered questions per completion",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	CompletionsPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_completions_persisted_total",
			Help: "Completions written to PostgreSQL, by write path",
		},
		[]string{"path"},
	)

	QuizzesPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_quizzes_published_total",
			Help: "Quizzes created directly or from drafts",
		},
	)
)

// Write paths for CompletionsPersisted.
const (
	PathBatch  = "batch"
	PathSingle = "single"
	PathDirect = "direct"
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestCounter,
		RequestDuration,
		CompletionsSubmitted,
		CompletionScore,
		CompletionsPersisted,
		QuizzesPublished,
	)
}

// Registry returns the registry all collectors of this package live in.
func Registry() *prometheus.Registry {
	return registry
}

// PrometheusHandler serves the registry in the Prometheus text format.
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
