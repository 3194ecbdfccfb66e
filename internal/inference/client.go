// Package inference issues the single structured-output completion call of an analysis.
package inference

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultTemperature   = 0.7
	defaultMaxTokens     = 1000
	defaultTimeout       = 60 * time.Second
)

// Completer returns the raw text of a completion for a system/user prompt pair.
// Implementations return *domain.InferenceError on failure.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config is passed explicitly to New; there is no process-wide client.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64 // nil selects the default; zero is honored
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// WithDefaults fills unset fields with the provider defaults.
func (c Config) WithDefaults() Config {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		switch c.Provider {
		case ProviderGemini:
			c.Model = defaultGeminiModel
		default:
			c.Model = defaultOpenAIModel
		}
	}
	if c.BaseURL == "" && c.Provider == ProviderOpenAI {
		c.BaseURL = defaultOpenAIBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}

func (c Config) temperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

// Option configures New.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient sets the client used by the HTTP provider.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds the provider named in cfg and wraps it with the call policy.
// A missing API key is reported by the first Complete call, not here.
func New(cfg Config, opts ...Option) (Completer, error) {
	cfg = cfg.WithDefaults()
	if *cfg.Temperature < 0 {
		return nil, fmt.Errorf("inference temperature must not be negative, got %v", *cfg.Temperature)
	}
	o := options{httpClient: &http.Client{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var provider Completer
	switch cfg.Provider {
	case ProviderOpenAI:
		provider = NewOpenAIClient(cfg, o.httpClient)
	case ProviderGemini:
		provider = NewGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}

	return WithPolicy(provider, Policy{
		Provider:   cfg.Provider,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	}, o.logger), nil
}
