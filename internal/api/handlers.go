// Package api exposes HTTP handlers for the workout analysis service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"example.com/workoutanalysis/internal/domain"
)

const analysisFailedMessage = "Failed to analyze workout video"

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*domain.AnalysisResult, error)
}

// Handler handles HTTP interactions.
type Handler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewHandler constructs Handler.
func NewHandler(analyzer Analyzer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{analyzer: analyzer, logger: logger}
}

// RegisterRoutes sets up routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", root)
	mux.HandleFunc("/api/test", apiTest)
	mux.HandleFunc("/api/analyze", h.analyze)
	mux.HandleFunc("/healthz", healthz)
}

// healthz returns an OK response for readiness probes.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Workout Analysis API is running"))
}

func apiTest(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(r.Header))
	for key := range r.Header {
		headers[key] = r.Header.Get(key)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "API is working properly",
		"headers": headers,
	})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Success bool `json:"success"`
	*domain.AnalysisResult
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		var validation *domain.ValidationError
		if errors.As(err, &validation) {
			writeError(w, http.StatusBadRequest, validation.Message)
			return
		}
		h.logger.Error("analyze request failed", slog.String("url", req.URL), slog.String("outcome", domain.OutcomeOf(err)), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, analysisFailedMessage)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, AnalysisResult: result})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
