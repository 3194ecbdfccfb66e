package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"example.com/workoutanalysis/internal/domain"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	cfg    Config
	client openai.Client
}

// NewOpenAIClient constructs the client. cfg should already have defaults applied.
// Retries are left to the policy wrapper, so the SDK makes a single request.
func NewOpenAIClient(cfg Config, httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &OpenAIClient{cfg: cfg, client: client}
}

// Complete sends one chat completion request in JSON-object mode.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", &domain.InferenceError{Kind: domain.KindConfig, Message: domain.ErrMissingCredential.Error(), Err: domain.ErrMissingCredential}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.cfg.temperature()),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &domain.InferenceError{
				Kind:    domain.KindUpstream,
				Message: fmt.Sprintf("status %d: %s", apiErr.StatusCode, upstreamMessage(apiErr)),
				Err:     &StatusError{Status: apiErr.StatusCode},
			}
		}
		return "", transportError(err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", &domain.InferenceError{Kind: domain.KindEmpty, Message: domain.ErrEmptyCompletion.Error(), Err: domain.ErrEmptyCompletion}
	}
	return completion.Choices[0].Message.Content, nil
}

// StatusError records a non-2xx response from the provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "provider responded with " + http.StatusText(e.Status)
}

func upstreamMessage(apiErr *openai.Error) string {
	if msg := strings.TrimSpace(apiErr.Message); msg != "" {
		return msg
	}
	if text := http.StatusText(apiErr.StatusCode); text != "" {
		return text
	}
	return "no response body"
}

func transportError(err error) *domain.InferenceError {
	kind := domain.KindUpstream
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = domain.KindTimeout
	}
	return &domain.InferenceError{Kind: kind, Message: err.Error(), Err: err}
}
