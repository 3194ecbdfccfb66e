package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	analysisCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_analysis",
		Name:      "analysis_requests_total",
		Help:      "Number of analysis requests by platform and outcome.",
	}, []string{"platform", "outcome"})

	lastAnalysisGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_analysis",
		Name:      "last_analysis_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful analysis.",
	})

	inferenceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workout_analysis",
		Name:      "inference_duration_seconds",
		Help:      "Latency of individual inference attempts.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	}, []string{"provider"})

	inferenceAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_analysis",
		Name:      "inference_attempts_total",
		Help:      "Inference attempts by provider and result.",
	}, []string{"provider", "result"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_analysis",
		Name:      "events_published_total",
		Help:      "Analysis result events handed to the broker.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(analysisCounter, lastAnalysisGauge, inferenceDuration, inferenceAttempts, eventsPublished)
}

// RecordAnalysis counts one pipeline run.
func RecordAnalysis(platform, outcome string) {
	if platform == "" {
		platform = "unknown"
	}
	analysisCounter.WithLabelValues(platform, outcome).Inc()
}

// RecordAnalysisCompleted updates the success watermark.
func RecordAnalysisCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastAnalysisGauge.Set(float64(ts.Unix()))
}

// RecordInferenceAttempt observes one provider call.
func RecordInferenceAttempt(provider, result string, elapsed time.Duration) {
	inferenceDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	inferenceAttempts.WithLabelValues(provider, result).Inc()
}

// RecordEventPublished counts publish outcomes; result is "ok" or "error".
func RecordEventPublished(result string) {
	eventsPublished.WithLabelValues(result).Inc()
}

// AnalysisCount exposes the analysis counter for a label pair.
func AnalysisCount(platform, outcome string) prometheus.Counter {
	return analysisCounter.WithLabelValues(platform, outcome)
}

// InferenceAttempts exposes the attempt counter for a label pair.
func InferenceAttempts(provider, result string) prometheus.Counter {
	return inferenceAttempts.WithLabelValues(provider, result)
}
