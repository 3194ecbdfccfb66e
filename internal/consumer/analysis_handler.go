package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"example.com/workoutanalysis/internal/domain"
	"example.com/workoutanalysis/internal/events"
)

// ErrMalformedMessage marks records that can never be processed.
var ErrMalformedMessage = errors.New("malformed analysis request")

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*domain.AnalysisResult, error)
}

// AnalysisRequestHandler runs the pipeline for analysis.requested records.
type AnalysisRequestHandler struct {
	analyzer Analyzer
}

// NewAnalysisRequestHandler constructs a handler backed by analyzer.
func NewAnalysisRequestHandler(analyzer Analyzer) Handler {
	return &AnalysisRequestHandler{analyzer: analyzer}
}

// Handle ignores other event types. Records without an event_type header are
// treated as analysis requests.
func (h *AnalysisRequestHandler) Handle(ctx context.Context, msg Message) error {
	if eventType, ok := msg.Headers["event_type"]; ok && eventType != events.EventAnalysisRequested {
		return nil
	}

	payload := msg.Payload
	// Confluent Schema Registry wire format (magic byte + 4-byte schema id)
	if len(payload) >= 5 && payload[0] == 0x00 {
		payload = payload[5:]
	}

	var req events.AnalysisRequested
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = string(msg.Key)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	_, err := h.analyzer.Analyze(events.WithRequestID(ctx, requestID), req.URL)
	return err
}
