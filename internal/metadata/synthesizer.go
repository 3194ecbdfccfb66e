// Package metadata builds VideoInfo records from a classified URL.
//
// No media is fetched: the descriptive fields are deterministic placeholders
// standing in for a frame-extraction subsystem.
package metadata

import (
	"fmt"

	"github.com/google/uuid"

	"example.com/workoutanalysis/internal/domain"
)

const (
	placeholderThumbnail = "https://via.placeholder.com/300x200?text=Workout+Video"
	placeholderCreator   = "Fitness Creator"
	placeholderDuration  = "~2 minutes"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithIDFunc overrides the job identifier source.
func WithIDFunc(fn func() string) Option {
	return func(s *Synthesizer) { s.newID = fn }
}

// Synthesizer produces VideoInfo records.
type Synthesizer struct {
	newID func() string
}

// NewSynthesizer constructs a Synthesizer that issues random UUID job ids.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize never fails. Unknown platforms still get a full record.
func (s *Synthesizer) Synthesize(url string, platform domain.Platform) domain.VideoInfo {
	if platform == "" {
		platform = domain.PlatformUnknown
	}
	return domain.VideoInfo{
		URL:      url,
		Platform: platform,
		JobID:    s.newID(),
		Metadata: Placeholder(platform),
	}
}

// Placeholder returns the deterministic metadata for a platform.
func Placeholder(platform domain.Platform) domain.VideoMetadata {
	return domain.VideoMetadata{
		Title:        fmt.Sprintf("Workout Video (%s)", platform),
		Creator:      placeholderCreator,
		DurationHint: placeholderDuration,
		ThumbnailURL: placeholderThumbnail,
	}
}
