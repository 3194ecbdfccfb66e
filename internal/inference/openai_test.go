package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutanalysis/internal/domain"
)

func openAIConfig(baseURL string) Config {
	return Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: baseURL}.WithDefaults()
}

type capturedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type capturedRequest struct {
	Model          string            `json:"model"`
	Messages       []capturedMessage `json:"messages"`
	Temperature    *float64          `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func completionServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"workouts\":[]}"}}]}`))
	}))
}

func TestOpenAIClientRequestShape(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, &captured)
	defer server.Close()

	client := NewOpenAIClient(openAIConfig(server.URL), server.Client())
	raw, err := client.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	require.Equal(t, `{"workouts":[]}`, raw)

	require.Equal(t, "gpt-4o", captured.Model)
	require.NotNil(t, captured.Temperature)
	require.InDelta(t, 0.7, *captured.Temperature, 1e-9)
	require.Equal(t, 1000, captured.MaxTokens)
	require.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Equal(t, []capturedMessage{{Role: "system", Content: "sys"}, {Role: "user", Content: "usr"}}, captured.Messages)
}

func TestOpenAIClientSendsZeroTemperature(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, &captured)
	defer server.Close()

	zero := 0.0
	cfg := Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: server.URL, Temperature: &zero}.WithDefaults()
	_, err := NewOpenAIClient(cfg, server.Client()).Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	require.NotNil(t, captured.Temperature)
	require.Zero(t, *captured.Temperature)
}

func TestOpenAIClientMissingKeyFailsAtCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	cfg := openAIConfig(server.URL)
	cfg.APIKey = ""
	completer, err := New(cfg, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), "sys", "usr")
	var ierr *domain.InferenceError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, domain.KindConfig, ierr.Kind)
	require.True(t, errors.Is(err, domain.ErrMissingCredential))
	require.Zero(t, calls)
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAIClient(openAIConfig(server.URL), server.Client()).Complete(context.Background(), "s", "u")
	var ierr *domain.InferenceError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, domain.KindEmpty, ierr.Kind)
}

func TestOpenAIClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAIClient(openAIConfig(server.URL), server.Client()).Complete(context.Background(), "s", "u")
	var ierr *domain.InferenceError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, domain.KindUpstream, ierr.Kind)
	require.Contains(t, ierr.Message, "Rate limit reached")
	require.Contains(t, ierr.Message, "429")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.Status)
}

func TestOpenAIClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := openAIConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	completer, err := New(cfg, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), "s", "u")
	var ierr *domain.InferenceError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, domain.KindTimeout, ierr.Kind)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "carrier-pigeon"})
	require.Error(t, err)
}

func TestNewRejectsNegativeTemperature(t *testing.T) {
	negative := -0.1
	_, err := New(Config{Provider: ProviderOpenAI, Temperature: &negative})
	require.ErrorContains(t, err, "temperature")
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	require.Equal(t, ProviderOpenAI, cfg.Provider)
	require.Equal(t, "gpt-4o", cfg.Model)
	require.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	require.Equal(t, 60*time.Second, cfg.Timeout)
	require.Zero(t, cfg.MaxRetries)
	require.InDelta(t, 0.7, *cfg.Temperature, 1e-9)

	zero := 0.0
	require.Zero(t, *Config{Temperature: &zero}.WithDefaults().Temperature)

	gemini := Config{Provider: "Gemini"}.WithDefaults()
	require.Equal(t, ProviderGemini, gemini.Provider)
	require.Equal(t, "gemini-2.5-flash", gemini.Model)
	require.Empty(t, gemini.BaseURL)
}
