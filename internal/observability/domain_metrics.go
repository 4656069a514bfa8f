package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	classificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datachat_classifications_total",
			Help: "Total number of intent classifications by label and decision source.",
		},
		[]string{"label", "source"},
	)
	pipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datachat_pipeline_requests_total",
			Help: "Total number of resolved pipeline requests by result kind.",
		},
		[]string{"kind"},
	)
	pipelineDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datachat_pipeline_duration_seconds",
			Help:    "End-to-end pipeline resolution latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)
	stageFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datachat_stage_fallbacks_total",
			Help: "Total number of times a pipeline stage fell back to its deterministic default.",
		},
		[]string{"stage"},
	)
	modelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datachat_model_calls_total",
			Help: "Total number of model completion calls by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		classificationsTotal,
		pipelineRequestsTotal,
		pipelineDurationSeconds,
		stageFallbacksTotal,
		modelCallsTotal,
	)
}

func ObserveClassification(label, source string) {
	classificationsTotal.WithLabelValues(label, source).Inc()
}

func ObservePipelineResult(kind string, elapsed time.Duration) {
	pipelineRequestsTotal.WithLabelValues(kind).Inc()
	pipelineDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveStageFallback(stage string) {
	stageFallbacksTotal.WithLabelValues(stage).Inc()
}

func ObserveModelCall(outcome string) {
	modelCallsTotal.WithLabelValues(outcome).Inc()
}
