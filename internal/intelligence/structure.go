package intelligence

import (
	"strings"
)

// PageMarker prefixes every page boundary inserted by text extraction
const PageMarker = "--- Page"

// StructureAnalyzer infers page count and common section kinds
type StructureAnalyzer struct {
	lex *Lexicon
}

// NewStructureAnalyzer creates a structure analyzer
func NewStructureAnalyzer(lex *Lexicon) *StructureAnalyzer {
	return &StructureAnalyzer{lex: lex}
}

// Analyze counts page markers and flags sections found by keyword
func (a *StructureAnalyzer) Analyze(text string) Structure {
	return Structure{
		PageCount: CountPages(text),
		Elements:  a.elements(strings.ToLower(text)),
	}
}

func (a *StructureAnalyzer) elements(lower string) []string {
	var found []string
	for _, rule := range a.lex.StructureRules {
		if containsAny(lower, rule.Keywords) {
			found = append(found, rule.Label)
		}
	}
	return found
}

// CountPages infers the page count from extraction markers.
// Text without markers counts as a single page.
func CountPages(text string) int {
	pages := strings.Split(text, PageMarker)
	if strings.TrimSpace(pages[0]) == "" {
		return len(pages) - 1
	}
	return len(pages)
}
