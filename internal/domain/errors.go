package domain

import (
	"errors"
	"fmt"
)

// ValidationReason classifies why a URL was rejected.
type ValidationReason string

const (
	ReasonMissingURL       ValidationReason = "missing_url"
	ReasonUnknownPlatform  ValidationReason = "unknown_platform"
	ReasonUnsupportedShape ValidationReason = "unsupported_url"
)

// ValidationError is returned before any inference cost is incurred.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InferenceKind narrows an InferenceError for logging and retry decisions.
type InferenceKind string

const (
	KindConfig   InferenceKind = "config"
	KindUpstream InferenceKind = "upstream"
	KindTimeout  InferenceKind = "timeout"
	KindEmpty    InferenceKind = "empty"
)

// ErrMissingCredential indicates the inference provider has no API key configured.
var ErrMissingCredential = errors.New("inference API key is not configured")

// ErrEmptyCompletion indicates the provider answered without any content.
var ErrEmptyCompletion = errors.New("completion returned no content")

// InferenceError wraps a failed completion call. Message preserves the upstream text.
type InferenceError struct {
	Kind    InferenceKind
	Message string
	Err     error
}

func (e *InferenceError) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("inference %s: %s", e.Kind, e.Message)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could plausibly succeed.
func (e *InferenceError) Retryable() bool {
	return e.Kind == KindUpstream || e.Kind == KindTimeout
}

// MalformedReason classifies why a completion could not be used.
type MalformedReason string

const (
	ReasonInvalidJSON MalformedReason = "invalid_json"
	ReasonSchema      MalformedReason = "schema_violation"
)

// MalformedResponseError is returned when the completion is not a usable JSON object.
type MalformedResponseError struct {
	Reason MalformedReason
	Raw    string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response (%s): %v", e.Reason, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Outcome labels used for logging and metrics.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeInference = "inference_error"
	OutcomeMalformed = "malformed_response"
	OutcomeInternal  = "internal_error"
)

// OutcomeOf maps an error from the pipeline to its outcome label.
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var validation *ValidationError
	var inference *InferenceError
	var malformed *MalformedResponseError
	switch {
	case errors.As(err, &validation):
		return OutcomeInvalid
	case errors.As(err, &inference):
		return OutcomeInference
	case errors.As(err, &malformed):
		return OutcomeMalformed
	}
	return OutcomeInternal
}
