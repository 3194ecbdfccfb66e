package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/workoutanalysis/internal/domain"
)

func sampleInfo() domain.VideoInfo {
	return domain.VideoInfo{
		URL:      "https://www.tiktok.com/@coach/video/1234567890",
		Platform: domain.PlatformTikTok,
		JobID:    "job-1",
		Metadata: domain.VideoMetadata{
			Title:        "Leg Day Burner",
			Creator:      "coach",
			DurationHint: "~2 minutes",
			ThumbnailURL: "https://example.com/thumb.jpg",
		},
	}
}

func TestBuildInterpolatesVideoInfo(t *testing.T) {
	p := Build(sampleInfo())

	require.Contains(t, p.User, "URL: https://www.tiktok.com/@coach/video/1234567890")
	require.Contains(t, p.User, "Platform: TikTok")
	require.Contains(t, p.User, "Title: Leg Day Burner")
	require.Contains(t, p.User, "Creator: coach")
	require.Contains(t, p.User, "Duration: ~2 minutes")
	require.NotContains(t, p.User, "job-1")
}

func TestBuildSystemFixesContract(t *testing.T) {
	p := Build(sampleInfo())

	for _, field := range []string{`"workouts"`, `"videoTitle"`, `"totalDuration"`, `"muscleGroups"`, `"confidence"`} {
		require.Contains(t, p.System, field)
	}
	require.True(t, strings.Index(p.System, "verbatim") < strings.Index(p.System, "Only then infer"),
		"text extraction must come before type inference")
}

func TestBuildIsDeterministic(t *testing.T) {
	require.Equal(t, Build(sampleInfo()), Build(sampleInfo()))
}
