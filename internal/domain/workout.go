// Package domain holds the types shared by every stage of the workout analysis pipeline.
package domain

// Platform identifies the social-media source of a video URL.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformYouTube   Platform = "YouTube"
	PlatformUnknown   Platform = "Unknown"
)

// Known reports whether the platform is one the pipeline can analyze.
func (p Platform) Known() bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube:
		return true
	}
	return false
}

func (p Platform) String() string { return string(p) }

// Difficulty is the model's difficulty label for an exercise.
// Values outside the three known labels are kept as-is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// VideoMetadata carries best-effort descriptive fields for a video.
type VideoMetadata struct {
	Title        string `json:"title"`
	Creator      string `json:"creator"`
	DurationHint string `json:"duration"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// VideoInfo is produced once per request and not modified afterwards.
type VideoInfo struct {
	URL      string        `json:"url"`
	Platform Platform      `json:"platform"`
	JobID    string        `json:"jobId"`
	Metadata VideoMetadata `json:"metadata"`
}

// WorkoutEntry is a single exercise extracted by the model.
type WorkoutEntry struct {
	Name            string     `json:"name"`
	Sets            *string    `json:"sets,omitempty"`
	Reps            *string    `json:"reps,omitempty"`
	Type            string     `json:"type"`
	MuscleGroups    []string   `json:"muscleGroups"`
	DurationSeconds float64    `json:"duration"`
	Difficulty      Difficulty `json:"difficulty"`
	Confidence      float64    `json:"confidence"`
}

// AnalysisResult is the typed outcome of one analysis request.
type AnalysisResult struct {
	Workouts             []WorkoutEntry `json:"workouts"`
	VideoURL             string         `json:"videoUrl"`
	VideoTitle           string         `json:"videoTitle"`
	ThumbnailURL         string         `json:"thumbnailUrl"`
	Platform             Platform       `json:"platform"`
	Creator              string         `json:"creator"`
	TotalDurationSeconds *float64       `json:"totalDuration,omitempty"`
	JobID                string         `json:"jobId"`
}
