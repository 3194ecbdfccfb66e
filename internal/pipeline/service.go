// Package pipeline runs one analysis request from URL to AnalysisResult.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"example.com/workoutanalysis/internal/analysis"
	"example.com/workoutanalysis/internal/domain"
	"example.com/workoutanalysis/internal/events"
	"example.com/workoutanalysis/internal/inference"
	"example.com/workoutanalysis/internal/metadata"
	"example.com/workoutanalysis/internal/observability"
	"example.com/workoutanalysis/internal/platform"
	"example.com/workoutanalysis/internal/prompt"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPublisher emits a WorkoutAnalyzed event after each successful analysis.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSynthesizer overrides the metadata synthesizer.
func WithSynthesizer(m *metadata.Synthesizer) Option {
	return func(s *Service) { s.synth = m }
}

// Service holds immutable collaborators and is safe for concurrent use.
type Service struct {
	completer inference.Completer
	synth     *metadata.Synthesizer
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service around a completer.
func NewService(completer inference.Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		synth:     metadata.NewSynthesizer(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze validates url, asks the model for a workout breakdown and parses the reply.
// Validation failures return before any inference call is made.
func (s *Service) Analyze(ctx context.Context, url string) (*domain.AnalysisResult, error) {
	if err := platform.Validate(url); err != nil {
		s.logger.Info("analysis rejected", slog.String("url", url), slog.Any("error", err))
		observability.RecordAnalysis(string(platform.Classify(url)), domain.OutcomeInvalid)
		return nil, err
	}

	info := s.synth.Synthesize(url, platform.Classify(url))
	logger := s.logger.With(slog.String("job_id", info.JobID), slog.String("platform", info.Platform.String()))
	logger.Info("analysis started", slog.String("url", url))

	p := prompt.Build(info)
	raw, err := s.completer.Complete(ctx, p.System, p.User)
	if err != nil {
		return nil, s.fail(logger, info, "inference failed", err)
	}

	result, err := analysis.Parse(raw, info)
	if err != nil {
		var malformed *domain.MalformedResponseError
		if errors.As(err, &malformed) {
			logger.Warn("model response malformed", slog.String("reason", string(malformed.Reason)), slog.Int("raw_bytes", len(malformed.Raw)))
		}
		return nil, s.fail(logger, info, "parse failed", err)
	}

	observability.RecordAnalysis(info.Platform.String(), domain.OutcomeSuccess)
	observability.RecordAnalysisCompleted(s.now())
	logger.Info("analysis completed", slog.Int("workouts", len(result.Workouts)))

	s.publish(ctx, logger, result)
	return &result, nil
}

func (s *Service) fail(logger *slog.Logger, info domain.VideoInfo, msg string, err error) error {
	outcome := domain.OutcomeOf(err)
	observability.RecordAnalysis(info.Platform.String(), outcome)
	logger.Error(msg, slog.String("outcome", outcome), slog.Any("error", err))
	return err
}

func (s *Service) publish(ctx context.Context, logger *slog.Logger, result domain.AnalysisResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnalyzed(ctx, result); err != nil {
		observability.RecordEventPublished("error")
		logger.Warn("publish analysis event", slog.Any("error", err))
		return
	}
	observability.RecordEventPublished("ok")
}
