// Package prompt turns VideoInfo into the instruction pair sent to the model.
package prompt

import (
	"fmt"

	"example.com/workoutanalysis/internal/domain"
)

// Prompt is the system directive plus the per-request user message.
type Prompt struct {
	System string
	User   string
}

// Build is deterministic for a given VideoInfo.
// Metadata is interpolated verbatim; it is synthesized today, so it is not
// sanitized against prompt injection.
func Build(info domain.VideoInfo) Prompt {
	return Prompt{
		System: workoutAnalysisSystem,
		User: fmt.Sprintf(workoutAnalysisUser,
			info.URL,
			info.Platform,
			info.Metadata.Title,
			info.Metadata.Creator,
			info.Metadata.DurationHint,
		),
	}
}
