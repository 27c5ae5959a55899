// Package youtube downloads YouTube audio and turns it into a readable transcript.
package youtube

import (
	"errors"
	"regexp"
)

// ErrInvalidURL is returned for URLs that do not point at a YouTube video
var ErrInvalidURL = errors.New("invalid YouTube URL format")

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/watch\?v=`),
	regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtu\.be/`),
	regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/embed/`),
	regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/v/`),
	regexp.MustCompile(`(?i)(?:https?://)?(?:m\.)?youtube\.com/watch\?v=`),
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

// ValidateURL reports whether url looks like a YouTube video link
func ValidateURL(url string) bool {
	for _, p := range urlPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}

// ExtractVideoID returns the 11 character video id, or "" when none is present
func ExtractVideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
