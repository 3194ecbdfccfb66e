package consumer

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"example.com/workoutanalysis/internal/events"
)

var deadLetterCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "workout_analysis",
	Subsystem: "dlq",
	Name:      "messages_written_total",
	Help:      "Failed analysis requests copied to the dead-letter topic.",
}, []string{"topic", "outcome"})

func init() {
	prometheus.MustRegister(deadLetterCounter)
}

// DeadLetterWriter copies failed records to a dead-letter topic for investigation.
type DeadLetterWriter struct {
	writer events.MessageWriter
	topic  string
}

// NewDeadLetterWriter initialises a writer for topic.
func NewDeadLetterWriter(writer events.MessageWriter, topic string) *DeadLetterWriter {
	return &DeadLetterWriter{writer: writer, topic: topic}
}

// Write records msg on the dead-letter topic alongside the failure outcome and reason.
func (w *DeadLetterWriter) Write(ctx context.Context, msg Message, outcome, reason string) error {
	headers := make([]kafka.Header, 0, len(msg.Headers)+5)
	for key, value := range msg.Headers {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}
	headers = append(headers,
		kafka.Header{Key: "dlq_outcome", Value: []byte(outcome)},
		kafka.Header{Key: "dlq_reason", Value: []byte(reason)},
		kafka.Header{Key: "dlq_source_topic", Value: []byte(msg.Topic)},
		kafka.Header{Key: "dlq_source_partition", Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: "dlq_source_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)

	err := w.writer.WriteMessages(ctx, w.topic, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Payload,
		Headers: headers,
		Time:    time.Now().UTC(),
	})
	if err == nil {
		deadLetterCounter.WithLabelValues(msg.Topic, outcome).Inc()
	}
	return err
}
