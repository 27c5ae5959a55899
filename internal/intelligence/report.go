package intelligence

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// EmptyReport is returned in place of a report when the input has no text
const EmptyReport = "No text content found in the PDF."

// DefaultTitle is the banner used when no title is configured
const DefaultTitle = "PDF Document Analysis"

const (
	mainPointWidth = 200
	insightWidth   = 180
	importantWidth = 180
	actionWidth    = 170

	renderedImportant  = 3
	renderedKeyPhrases = 5
)

// Render formats a summary into the multi-section text report
func Render(s *Summary) string {
	if s == nil || s.Empty {
		return EmptyReport
	}

	title := s.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	section(&b, "📋 MAIN POINTS & KEY TAKEAWAYS:", formatMainPoints(s.MainPoints))
	section(&b, "💡 KEY INSIGHTS:", formatBullets(s.KeyInsights, insightWidth, true,
		"• Document analysis did not reveal clear insights"))
	section(&b, "🎯 IMPORTANT CONTENT:", formatBullets(head(s.ImportantTexts(), renderedImportant), importantWidth, false,
		"• No significant sentences identified"))
	section(&b, "🔑 CORE TOPICS & KEYWORDS:", formatKeyPhrases(s.KeyPhrases))
	section(&b, "📝 ACTION ITEMS & RECOMMENDATIONS:", formatBullets(s.ActionItems, actionWidth, true,
		"• No specific action items or recommendations identified"))

	overview := strings.Join([]string{
		"• Total Words: " + humanize.Comma(int64(s.WordCount)),
		"• Reading Time: " + s.ReadingTime,
		"• Content Type: " + string(s.DocumentType),
		"• Complexity Level: " + s.Complexity.Label(),
	}, "\n")
	section(&b, "📊 DOCUMENT OVERVIEW:", overview)

	b.WriteString("🏗️ STRUCTURE ANALYSIS:\n")
	b.WriteString(formatStructure(s.Structure))

	return b.String()
}

// ReadingTime estimates reading time at 200 words per minute
func ReadingTime(words int) string {
	minutes := float64(words) / wordsPerMinute

	switch {
	case minutes < 1:
		return "< 1 minute"
	case minutes < 60:
		m := int(minutes)
		return fmt.Sprintf("%d minute%s", m, plural(m != 1))
	default:
		hours := fmt.Sprintf("%.1f", minutes/60)
		return fmt.Sprintf("%s hour%s", hours, plural(hours != "1.0"))
	}
}

func section(b *strings.Builder, header, body string) {
	b.WriteString(header + "\n")
	b.WriteString(body + "\n\n")
}

func formatMainPoints(points []string) string {
	if len(points) == 0 {
		return "• No clear main points identified in the document"
	}

	lines := make([]string, 0, len(points))
	for i, p := range points {
		clean := truncate(strings.TrimRight(strings.TrimSpace(p), ".,!?"), mainPointWidth)
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, clean))
	}
	return strings.Join(lines, "\n")
}

func formatBullets(items []string, width int, stripPunct bool, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		clean := strings.TrimSpace(item)
		if stripPunct {
			clean = strings.TrimRight(clean, ".,!?")
		}
		lines = append(lines, "• "+truncate(clean, width))
	}
	return strings.Join(lines, "\n")
}

func formatKeyPhrases(phrases []KeyPhrase) string {
	if len(phrases) == 0 {
		return "• No significant key phrases identified"
	}

	lines := make([]string, 0, renderedKeyPhrases)
	for i, p := range phrases {
		if i >= renderedKeyPhrases {
			break
		}
		lines = append(lines, "• "+TitleCase(p.Term))
	}
	return strings.Join(lines, "\n")
}

func formatStructure(st Structure) string {
	lines := []string{fmt.Sprintf("• Document has %d pages", st.PageCount)}
	if len(st.Elements) == 0 {
		lines = append(lines, "• Standard document structure")
	}
	for _, e := range st.Elements {
		lines = append(lines, "• "+e)
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width characters, ending in an ellipsis
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// TitleCase upper-cases the first letter of every letter run and
// lower-cases the rest.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}

	return b.String()
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func plural(yes bool) string {
	if yes {
		return "s"
	}
	return ""
}
