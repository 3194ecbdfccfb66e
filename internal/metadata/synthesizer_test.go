package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/workoutanalysis/internal/domain"
)

func TestSynthesizeFillsEveryField(t *testing.T) {
	s := NewSynthesizer()
	platforms := []domain.Platform{
		domain.PlatformInstagram,
		domain.PlatformTikTok,
		domain.PlatformYouTube,
		domain.PlatformUnknown,
	}
	for _, p := range platforms {
		info := s.Synthesize("https://example.com/video", p)
		require.Equal(t, p, info.Platform)
		require.Equal(t, "https://example.com/video", info.URL)
		require.NotEmpty(t, info.JobID)
		require.NotEmpty(t, info.Metadata.Title)
		require.NotEmpty(t, info.Metadata.Creator)
		require.NotEmpty(t, info.Metadata.DurationHint)
		require.NotEmpty(t, info.Metadata.ThumbnailURL)
	}
}

func TestSynthesizeIsDeterministicApartFromJobID(t *testing.T) {
	s := NewSynthesizer(WithIDFunc(func() string { return "job-1" }))
	a := s.Synthesize("https://youtu.be/dQw4w9WgXcQ", domain.PlatformYouTube)
	b := s.Synthesize("https://youtu.be/dQw4w9WgXcQ", domain.PlatformYouTube)
	require.Equal(t, a, b)
	require.Equal(t, "Workout Video (YouTube)", a.Metadata.Title)
	require.Equal(t, "Fitness Creator", a.Metadata.Creator)
	require.Equal(t, "~2 minutes", a.Metadata.DurationHint)
}

func TestSynthesizeIssuesDistinctJobIDs(t *testing.T) {
	s := NewSynthesizer()
	a := s.Synthesize("https://youtu.be/a", domain.PlatformYouTube)
	b := s.Synthesize("https://youtu.be/a", domain.PlatformYouTube)
	require.NotEqual(t, a.JobID, b.JobID)
}

func TestSynthesizeDefaultsEmptyPlatform(t *testing.T) {
	info := NewSynthesizer().Synthesize("https://vimeo.com/1", "")
	require.Equal(t, domain.PlatformUnknown, info.Platform)
	require.Equal(t, "Workout Video (Unknown)", info.Metadata.Title)
}
