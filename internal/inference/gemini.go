package inference

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/genai"

	"example.com/workoutanalysis/internal/domain"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	cfg Config

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient constructs the client. The SDK client is created on first use.
func NewGeminiClient(cfg Config) *GeminiClient {
	return &GeminiClient{cfg: cfg}
}

// Complete requests a JSON response for the prompt pair.
func (c *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", &domain.InferenceError{Kind: domain.KindConfig, Message: domain.ErrMissingCredential.Error(), Err: domain.ErrMissingCredential}
	}

	client, err := c.sdkClient(ctx)
	if err != nil {
		return "", &domain.InferenceError{Kind: domain.KindConfig, Message: err.Error(), Err: err}
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.cfg.temperature())),
		MaxOutputTokens:   int32(c.cfg.MaxTokens),
		ResponseMIMEType:  "application/json",
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(user), config)
	if err != nil {
		return "", transportError(err)
	}

	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &domain.InferenceError{Kind: domain.KindEmpty, Message: domain.ErrEmptyCompletion.Error(), Err: domain.ErrEmptyCompletion}
	}
	return text, nil
}

func (c *GeminiClient) sdkClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  c.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
