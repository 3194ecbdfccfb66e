// Package platform classifies social-media video URLs.
package platform

import (
	"regexp"
	"strings"

	"example.com/workoutanalysis/internal/domain"
)

const (
	missingURLMessage = "URL is required"
	invalidURLMessage = "Invalid social media URL. Please provide a valid Instagram, TikTok, or YouTube URL."
)

// Structural patterns. RE2 guarantees matching in time linear to the URL length.
var (
	instagramPattern = regexp.MustCompile(`(?:^|[/.])instagram\.com/(?:p|reel|tv)/[^/?#\s]+`)
	tiktokPattern    = regexp.MustCompile(`(?:^|[/.])tiktok\.com/@[^/?#\s]+/video/\d+`)
	youtubePattern   = regexp.MustCompile(`(?:(?:^|[/.])youtube\.com/watch\?v=|(?:^|[/.])youtu\.be/)[^&\s]+`)
)

type rule struct {
	platform  domain.Platform
	domains   []string
	structure *regexp.Regexp
}

var rules = []rule{
	{platform: domain.PlatformInstagram, domains: []string{"instagram.com"}, structure: instagramPattern},
	{platform: domain.PlatformTikTok, domains: []string{"tiktok.com"}, structure: tiktokPattern},
	{platform: domain.PlatformYouTube, domains: []string{"youtube.com", "youtu.be"}, structure: youtubePattern},
}

// Classify reports the platform whose video pattern the URL matches. URLs with no
// supported shape fall back to a domain check so validation can name the platform.
func Classify(url string) domain.Platform {
	for _, r := range rules {
		if r.structure.MatchString(url) {
			return r.platform
		}
	}
	lower := strings.ToLower(url)
	for _, r := range rules {
		for _, d := range r.domains {
			if strings.Contains(lower, d) {
				return r.platform
			}
		}
	}
	return domain.PlatformUnknown
}

// IsSupported reports whether the URL points at an individual video on a known platform.
func IsSupported(url string) bool {
	for _, r := range rules {
		if r.structure.MatchString(url) {
			return true
		}
	}
	return false
}

// Validate returns a *domain.ValidationError when the URL cannot be analyzed.
func Validate(url string) error {
	if strings.TrimSpace(url) == "" {
		return &domain.ValidationError{Reason: domain.ReasonMissingURL, Message: missingURLMessage}
	}
	if IsSupported(url) {
		return nil
	}
	reason := domain.ReasonUnsupportedShape
	if Classify(url) == domain.PlatformUnknown {
		reason = domain.ReasonUnknownPlatform
	}
	return &domain.ValidationError{Reason: reason, Message: invalidURLMessage}
}
