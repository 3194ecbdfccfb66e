package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/workoutanalysis/internal/domain"
)

// Publisher hands a finished analysis to downstream consumers.
type Publisher interface {
	PublishAnalyzed(ctx context.Context, result domain.AnalysisResult) error
}

// KafkaPublisher writes WorkoutAnalyzed records keyed by job id.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewKafkaPublisher constructs a publisher for topic.
func NewKafkaPublisher(writer MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, now: time.Now}
}

// PublishAnalyzed implements Publisher.
func (p *KafkaPublisher) PublishAnalyzed(ctx context.Context, result domain.AnalysisResult) error {
	at := p.now()
	payload, err := json.Marshal(NewWorkoutAnalyzed(ctx, result, at))
	if err != nil {
		return fmt.Errorf("encode %s: %w", EventWorkoutAnalyzed, err)
	}

	msg := kafka.Message{
		Key:   []byte(result.JobID),
		Value: payload,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventWorkoutAnalyzed)},
			{Key: "platform", Value: []byte(result.Platform.String())},
		},
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", EventWorkoutAnalyzed, err)
	}
	return nil
}
