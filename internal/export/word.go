package export

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	wordFont      = "Calibri"
	wordTitle     = "DualMind - Exported Results"
	titleSize     = 16
	bannerSize    = 14
	headingSize   = 12
	paragraphSize = 11
	markerWindow  = 10
)

// Paragraphs whose first characters contain one of these are set as headings
var headingMarkers = []string{
	"🎥", "📽️", "🔗", "👤", "⏱️", "🌍", "🕒", "📝", "📄", "📋", "💡", "🎯", "🔑", "📊", "🏗️", "=",
}

// SaveWord writes content as a Word document, one paragraph per blank-line block
func (e *Exporter) SaveWord(content, path string) error {
	if err := prepare(content, path); err != nil {
		return err
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create Word document: %w", err)
	}

	styledRun(doc.AddParagraph(""), wordTitle, titleSize).Bold(true)
	styledRun(doc.AddParagraph(""), "Generated: "+e.now().Format(timestampLayout), paragraphSize).Italic(true)
	doc.AddParagraph("")

	for _, para := range strings.Split(content, "\n\n") {
		text := strings.TrimSpace(para)
		if text == "" {
			continue
		}

		size, bold := paragraphStyle(para)
		run := styledRun(doc.AddParagraph(""), text, size)
		if bold {
			run.Bold(true)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save Word document: %w", err)
	}
	return nil
}

// paragraphStyle picks the font size and weight for a content block
func paragraphStyle(para string) (size uint64, bold bool) {
	head := para
	if runes := []rune(para); len(runes) > markerWindow {
		head = string(runes[:markerWindow])
	}

	for _, marker := range headingMarkers {
		if !strings.Contains(head, marker) {
			continue
		}
		if strings.Contains(para, "=") {
			return bannerSize, true
		}
		return headingSize, false
	}
	return paragraphSize, false
}

func styledRun(p *docx.Paragraph, text string, size uint64) *docx.Run {
	return p.AddText(text).Font(wordFont).Size(size).Color("000000")
}
