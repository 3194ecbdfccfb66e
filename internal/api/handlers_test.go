package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/workoutanalysis/internal/domain"
)

type stubAnalyzer struct {
	calls  int
	url    string
	result *domain.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, url string) (*domain.AnalysisResult, error) {
	s.calls++
	s.url = url
	return s.result, s.err
}

func newTestMux(analyzer Analyzer) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(analyzer, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(mux)
	return mux
}

func postAnalyze(t *testing.T, mux http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var decoded map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return rr, decoded
}

func TestAnalyzeReturnsResult(t *testing.T) {
	sets := "3"
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{
		Workouts:   []domain.WorkoutEntry{{Name: "Incline Smith", Sets: &sets}},
		VideoURL:   "https://youtu.be/abc123",
		VideoTitle: "Leg Day",
		Platform:   domain.PlatformYouTube,
		Creator:    "Fitness Creator",
		JobID:      "job-1",
	}}

	rr, body := postAnalyze(t, newTestMux(analyzer), `{"url":"https://youtu.be/abc123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if body["videoTitle"] != "Leg Day" || body["platform"] != "YouTube" || body["jobId"] != "job-1" {
		t.Fatalf("result fields not flattened into response: %v", body)
	}
	workouts, ok := body["workouts"].([]any)
	if !ok || len(workouts) != 1 {
		t.Fatalf("expected one workout, got %v", body["workouts"])
	}
	if analyzer.url != "https://youtu.be/abc123" {
		t.Fatalf("analyzer received %q", analyzer.url)
	}
}

func TestAnalyzeValidationErrorIs400(t *testing.T) {
	analyzer := &stubAnalyzer{err: &domain.ValidationError{Reason: domain.ReasonMissingURL, Message: "URL is required"}}

	rr, body := postAnalyze(t, newTestMux(analyzer), `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if body["success"] != false || body["error"] != "URL is required" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAnalyzeInvalidBodyIs400(t *testing.T) {
	analyzer := &stubAnalyzer{}

	rr, body := postAnalyze(t, newTestMux(analyzer), `{"url":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if body["error"] != "Invalid request body" {
		t.Fatalf("unexpected body: %v", body)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer should not run for an invalid body")
	}
}

func TestAnalyzeFailuresAreGeneric500(t *testing.T) {
	failures := []error{
		&domain.InferenceError{Kind: domain.KindUpstream, Message: "status 401: Incorrect API key provided: sk-secret"},
		&domain.MalformedResponseError{Reason: domain.ReasonInvalidJSON, Raw: "nope"},
	}
	for _, failure := range failures {
		rr, body := postAnalyze(t, newTestMux(&stubAnalyzer{err: failure}), `{"url":"https://youtu.be/abc123"}`)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		if body["error"] != analysisFailedMessage {
			t.Fatalf("expected generic message, got %v", body["error"])
		}
	}
}

func TestAnalyzeRejectsOtherMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rr := httptest.NewRecorder()
	newTestMux(&stubAnalyzer{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRootAndTestEndpoints(t *testing.T) {
	mux := newTestMux(&stubAnalyzer{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "Workout Analysis API is running" {
		t.Fatalf("unexpected root response: %d %q", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("X-Probe", "1")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var body struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Headers map[string]string `json:"headers"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success || body.Message != "API is working properly" || body.Headers["X-Probe"] != "1" {
		t.Fatalf("unexpected test response: %+v", body)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestMux(&stubAnalyzer{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rr.Code, rr.Body.String())
	}
}
