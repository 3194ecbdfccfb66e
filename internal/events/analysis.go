// Package events defines the analysis event payloads and their Kafka publisher.
package events

import (
	"context"
	"time"

	"example.com/workoutanalysis/internal/domain"
)

// Event type header values.
const (
	EventAnalysisRequested = "analysis.requested"
	EventWorkoutAnalyzed   = "workout.analyzed"
)

// SchemaVersion is stamped on every WorkoutAnalyzed payload.
const SchemaVersion = "1"

// AnalysisRequested asks the worker to analyze a video URL.
type AnalysisRequested struct {
	RequestID   string    `json:"request_id"`
	URL         string    `json:"url"`
	RequestedAt time.Time `json:"requested_at,omitzero"`
}

// WorkoutAnalyzed is emitted after a successful analysis.
type WorkoutAnalyzed struct {
	JobID        string                `json:"job_id"`
	RequestID    string                `json:"request_id,omitempty"`
	Platform     string                `json:"platform"`
	VideoURL     string                `json:"video_url"`
	WorkoutCount int                   `json:"workout_count"`
	Result       domain.AnalysisResult `json:"result"`
	AnalyzedAt   time.Time             `json:"analyzed_at"`
	Version      string                `json:"version"`
}

// NewWorkoutAnalyzed builds the payload for result.
func NewWorkoutAnalyzed(ctx context.Context, result domain.AnalysisResult, at time.Time) WorkoutAnalyzed {
	requestID, _ := RequestIDFromContext(ctx)
	return WorkoutAnalyzed{
		JobID:        result.JobID,
		RequestID:    requestID,
		Platform:     result.Platform.String(),
		VideoURL:     result.VideoURL,
		WorkoutCount: len(result.Workouts),
		Result:       result,
		AnalyzedAt:   at.UTC(),
		Version:      SchemaVersion,
	}
}

type contextKey string

const requestIDKey contextKey = "analysis-request-id"

// WithRequestID stores the caller's request id so published events can carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}
