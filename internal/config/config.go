package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/workoutanalysis/internal/inference"
)

const defaultWorkerBrokers = "kafka:9092"

// Config captures runtime configuration values for the analysis API and worker.
type Config struct {
	HTTPAddress      string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	MetricsAddress   string
	LogLevel         slog.Level
	Inference        inference.Config
	KafkaBrokers     []string
	RequestTopic     string
	ResultTopic      string
	DeadLetterTopic  string
	ConsumerGroup    string
}

// Load reads environment variables and applies defaults.
func Load() Config {
	provider := strings.ToLower(getEnv("INFERENCE_PROVIDER", inference.ProviderOpenAI))

	return Config{
		HTTPAddress:      getEnv("HTTP_ADDRESS", ":"+getEnv("PORT", "3000")),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 90*time.Second),
		HTTPIdleTimeout:  getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		MetricsAddress:   getEnv("METRICS_ADDRESS", ":9196"),
		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
		Inference: inference.Config{
			Provider:    provider,
			APIKey:      apiKeyFor(provider),
			BaseURL:     getEnv("INFERENCE_BASE_URL", ""),
			Model:       getEnv("INFERENCE_MODEL", ""),
			Temperature: getOptionalFloatEnv("INFERENCE_TEMPERATURE"),
			MaxTokens:   getIntEnv("INFERENCE_MAX_TOKENS", 1000),
			Timeout:     getDurationEnv("INFERENCE_TIMEOUT", 60*time.Second),
			MaxRetries:  getIntEnv("INFERENCE_MAX_RETRIES", 0),
		},
		KafkaBrokers:    splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		RequestTopic:    getEnv("REQUEST_TOPIC", "analysis_requests"),
		ResultTopic:     getEnv("RESULT_TOPIC", "workout_analyses"),
		DeadLetterTopic: getEnv("DLQ_TOPIC", "analysis_requests_dlq"),
		ConsumerGroup:   getEnv("CONSUMER_GROUP_ID", "workout-analysis-worker"),
	}
}

// WorkerBrokers returns the configured brokers, or the in-cluster default.
func (c Config) WorkerBrokers() []string {
	if len(c.KafkaBrokers) > 0 {
		return c.KafkaBrokers
	}
	return []string{defaultWorkerBrokers}
}

func apiKeyFor(provider string) string {
	if provider == inference.ProviderGemini {
		return getEnv("GEMINI_API_KEY", "")
	}
	return getEnv("OPENAI_API_KEY", "")
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getOptionalFloatEnv returns nil when key is unset or unparsable, so an explicit 0 survives.
func getOptionalFloatEnv(key string) *float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return &parsed
		}
	}
	return nil
}
