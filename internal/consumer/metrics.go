package consumer

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/workoutanalysis/internal/domain"
)

const outcomePoison = "poison"

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_analysis",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of Kafka messages processed by the analysis worker.",
	}, []string{"topic", "event_type", "outcome"})

	lastMessageGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "workout_analysis",
		Subsystem: "consumer",
		Name:      "last_message_timestamp_seconds",
		Help:      "Timestamp of the most recent Kafka message processed.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(processedCounter, lastMessageGauge)
}

// RecordProcessed updates counters for a handled message.
func RecordProcessed(msg Message, outcome string) {
	eventType := msg.Headers["event_type"]
	processedCounter.WithLabelValues(msg.Topic, eventType, outcome).Inc()
	if !msg.Timestamp.IsZero() {
		lastMessageGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

func outcomeOf(err error) string {
	if errors.Is(err, ErrMalformedMessage) {
		return outcomePoison
	}
	return domain.OutcomeOf(err)
}
