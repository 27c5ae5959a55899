package intelligence

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Envelope headings for the supported source kinds
const (
	PDFHeading  = "PDF Document Summary"
	TextHeading = "Text Document Summary"
)

// TimestampLayout is the processed-at format used in envelopes and exports
const TimestampLayout = "2006-01-02 15:04:05"

// Envelope wraps a rendered report with source metadata
type Envelope struct {
	Heading   string
	Document  string
	Length    int
	Language  string
	Processed time.Time
}

// Wrap renders the envelope around report
func (e Envelope) Wrap(report string) string {
	language := e.Language
	if language == "" {
		language = "English"
	}

	rule := strings.Repeat("=", 50)

	var b strings.Builder
	b.WriteString(e.Heading + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString("📄 Document: " + e.Document + "\n")
	b.WriteString("📊 Original Length: " + humanize.Comma(int64(e.Length)) + " characters\n")
	b.WriteString("🌍 Language: " + language + "\n")
	b.WriteString("🕒 Processed: " + e.Processed.Format(TimestampLayout) + "\n\n")
	b.WriteString("Summary:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	b.WriteString(report + "\n\n")
	b.WriteString(rule)
	return b.String()
}

// Outcome is a rendered report together with the analysis behind it
type Outcome struct {
	Source  string   `json:"source"`
	Report  string   `json:"report"`
	Summary *Summary `json:"summary,omitempty"`
}
