// Package analysis turns a raw model completion into an AnalysisResult.
package analysis

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"example.com/workoutanalysis/internal/domain"
)

// Parse decodes raw and merges it with the request's VideoInfo.
// It returns *domain.MalformedResponseError when raw is not a JSON object; no
// partial result is produced in that case.
func Parse(raw string, fallback domain.VideoInfo) (domain.AnalysisResult, error) {
	text := stripFences(raw)

	var instance any
	if err := json.Unmarshal([]byte(text), &instance); err != nil {
		return domain.AnalysisResult{}, &domain.MalformedResponseError{Reason: domain.ReasonInvalidJSON, Raw: raw, Err: err}
	}
	if verdict, err := Check(instance); verdict == Malformed {
		return domain.AnalysisResult{}, &domain.MalformedResponseError{Reason: domain.ReasonSchema, Raw: raw, Err: err}
	}

	obj, ok := instance.(map[string]any)
	if !ok {
		return domain.AnalysisResult{}, &domain.MalformedResponseError{Reason: domain.ReasonSchema, Raw: raw, Err: errors.New("top-level value is not an object")}
	}

	result := domain.AnalysisResult{
		Workouts:     decodeWorkouts(obj["workouts"]),
		VideoURL:     fallback.URL,
		VideoTitle:   fallback.Metadata.Title,
		ThumbnailURL: fallback.Metadata.ThumbnailURL,
		Platform:     fallback.Platform,
		Creator:      fallback.Metadata.Creator,
		JobID:        fallback.JobID,
	}
	if title, ok := obj["videoTitle"].(string); ok && title != "" {
		result.VideoTitle = title
	}
	if total, ok := obj["totalDuration"].(float64); ok {
		result.TotalDurationSeconds = &total
	}
	return result, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeWorkouts(v any) []domain.WorkoutEntry {
	items, ok := v.([]any)
	if !ok {
		return []domain.WorkoutEntry{}
	}
	entries := make([]domain.WorkoutEntry, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, decodeEntry(fields))
	}
	return entries
}

// decodeEntry copies fields as given. Confidence and difficulty are not range-checked.
func decodeEntry(fields map[string]any) domain.WorkoutEntry {
	entry := domain.WorkoutEntry{
		Name:         stringField(fields, "name"),
		Sets:         countField(fields, "sets"),
		Reps:         countField(fields, "reps"),
		Type:         stringField(fields, "type"),
		MuscleGroups: stringList(fields["muscleGroups"]),
		Difficulty:   domain.Difficulty(stringField(fields, "difficulty")),
	}
	if d, ok := fields["duration"].(float64); ok {
		entry.DurationSeconds = d
	} else if d, ok := fields["durationSeconds"].(float64); ok {
		entry.DurationSeconds = d
	}
	if c, ok := fields["confidence"].(float64); ok {
		entry.Confidence = c
	}
	return entry
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// countField accepts "3", "8-12" or 3.
func countField(fields map[string]any, key string) *string {
	switch v := fields[key].(type) {
	case string:
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	}
	return nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
