package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "interviewcoach"

// Outcome labels for evaluations_total
const (
	OutcomeScored     = "scored"
	OutcomeUnscorable = "unscorable"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
)

// Metrics holds every collector the server exports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	summaryVec  *prometheus.SummaryVec
	counterVec  *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	upstream    *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		summaryVec: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		counterVec: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Answer evaluations by outcome",
			},
			[]string{"outcome"},
		),
		upstream: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_call_duration_seconds",
				Help:      "Duration of transcription and scoring calls",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"stage", "provider", "result"},
		),
	}
}

// ObserveEvaluation counts one finished evaluation
func (m *Metrics) ObserveEvaluation(outcome string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one upstream attempt
func (m *Metrics) ObserveUpstream(stage, provider string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstream.WithLabelValues(stage, provider, result).Observe(d.Seconds())
}

// Build returns the gin middleware recording request count and latency
func (m *Metrics) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		if m == nil {
			return
		}

		duration := time.Since(start).Seconds()
		method := ctx.Request.Method
		// unmatched routes share one label to keep cardinality bounded
		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusCode := strconv.Itoa(ctx.Writer.Status())

		m.summaryVec.WithLabelValues(method, path, statusCode).Observe(duration)
		m.counterVec.WithLabelValues(method, path, statusCode).Inc()
	}
}
