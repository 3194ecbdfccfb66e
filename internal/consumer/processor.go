// Package consumer streams analysis requests from Kafka into the pipeline.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader describes the kafka.Reader functions the processor interacts with.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler processes decoded Kafka messages.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message represents a decoded Kafka record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Payload   json.RawMessage
	Timestamp time.Time
	Headers   map[string]string
}

// Option configures processor behaviour.
type Option func(*Processor)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithFetchBackoff sets the pause after a failed fetch.
func WithFetchBackoff(d time.Duration) Option {
	return func(p *Processor) { p.fetchBackoff = d }
}

// WithDeadLetter copies records the handler rejects to a dead-letter topic before committing.
func WithDeadLetter(w *DeadLetterWriter) Option {
	return func(p *Processor) { p.deadLetter = w }
}

// Processor coordinates the consumer loop. Every fetched record is committed
// after handling, including records the handler rejects.
type Processor struct {
	reader       Reader
	handler      Handler
	logger       *slog.Logger
	fetchBackoff time.Duration
	deadLetter   *DeadLetterWriter
}

// NewProcessor constructs a processor from a reader/handler pair.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{reader: reader, handler: handler, logger: slog.Default(), fetchBackoff: time.Second}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run consumes messages until ctx cancellation.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Warn("fetch error", slog.Any("error", err))
			if !sleep(ctx, p.fetchBackoff) {
				return ctx.Err()
			}
			continue
		}

		decoded := decode(msg)
		logger := p.logger.With(slog.String("topic", msg.Topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

		err = p.handler.Handle(ctx, decoded)
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Left uncommitted so the group redelivers it after restart.
			logger.Info("shutdown interrupted record", slog.Any("error", err))
			return ctxErr
		}
		outcome := outcomeOf(err)
		if err != nil {
			logger.Error("handler error", slog.String("outcome", outcome), slog.Any("error", err))
			if p.deadLetter != nil {
				if dlqErr := p.deadLetter.Write(ctx, decoded, outcome, err.Error()); dlqErr != nil {
					logger.Error("dead-letter write failed", slog.Any("error", dlqErr))
				}
			}
		} else {
			logger.Debug("processed")
		}
		RecordProcessed(decoded, outcome)

		if err := p.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("commit error", slog.Any("error", err))
		}
	}
}

func decode(msg kafka.Message) Message {
	decoded := Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Payload:   append(json.RawMessage{}, msg.Value...),
		Timestamp: msg.Time,
		Headers:   make(map[string]string, len(msg.Headers)),
	}
	for _, header := range msg.Headers {
		decoded.Headers[header.Key] = string(header.Value)
	}
	return decoded
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
