package youtube

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NoTranscript replaces a blank transcript
const NoTranscript = "No transcript available."

// DefaultTitle is used when the video title cannot be fetched
const DefaultTitle = "YouTube Video"

const (
	minFragmentLength   = 3
	longSentenceLength  = 50
	paragraphMinimum    = 3
	paragraphMaximum    = 4
	transcriptTimestamp = "2006-01-02 15:04:05"
)

var (
	missingStop    = regexp.MustCompile(`([a-z])\s+([A-Z])`)
	sentenceBreaks = regexp.MustCompile(`[.!?]+`)
)

// FormatTranscriptText restores sentence punctuation in raw speech
// recognition output and groups sentences into short paragraphs
func FormatTranscriptText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return NoTranscript
	}

	text = missingStop.ReplaceAllString(text, "$1. $2")

	var sentences []string
	for _, s := range sentenceBreaks.Split(text, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minFragmentLength {
			continue
		}
		sentences = append(sentences, capitalize(s))
	}

	var paragraphs, current []string
	for _, s := range sentences {
		current = append(current, s)
		if (len(current) >= paragraphMinimum && utf8.RuneCountInString(s) > longSentenceLength) ||
			len(current) >= paragraphMaximum {
			paragraphs = append(paragraphs, strings.Join(current, ". ")+".")
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, ". ")+".")
	}

	return strings.Join(paragraphs, "\n\n")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Transcript is the result of transcribing one video
type Transcript struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	VideoID   string    `json:"video_id,omitempty"`
	Language  string    `json:"language"`
	Text      string    `json:"text"`
	Processed time.Time `json:"processed"`
}

// Formatted returns the paragraph formatted transcript text
func (t *Transcript) Formatted() string {
	return FormatTranscriptText(t.Text)
}

// Render returns the transcript wrapped in its header and rules
func (t *Transcript) Render() string {
	title := t.Title
	if title == "" {
		title = DefaultTitle
	}
	language := t.Language
	if language == "" {
		language = "unknown"
	}

	var b strings.Builder
	b.WriteString("YouTube Video Transcription\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString("Title: " + title + "\n")
	b.WriteString("URL: " + t.URL + "\n")
	b.WriteString("Language: " + language + "\n")
	b.WriteString("Processed: " + t.Processed.Format(transcriptTimestamp) + "\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n\n")
	b.WriteString(t.Formatted() + "\n\n")
	b.WriteString(strings.Repeat("-", 50))
	return b.String()
}
