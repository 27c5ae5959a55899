package intelligence

import (
	"strings"
	"unicode/utf8"
)

// Classifier assigns a document type and a complexity tier
type Classifier struct {
	lex *Lexicon
}

// NewClassifier creates a classifier backed by the given lexicon
func NewClassifier(lex *Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// DocumentType returns the first type rule whose keywords appear in text
func (c *Classifier) DocumentType(text string) DocumentType {
	lower := strings.ToLower(text)
	for _, rule := range c.lex.TypeRules {
		if containsAny(lower, rule.Keywords) {
			return rule.Type
		}
	}
	return DocumentTypeGeneral
}

// Complexity grades words by mean length and the share of long words.
// An empty word list yields ComplexityUnknown.
func (c *Classifier) Complexity(words []string) ComplexityTier {
	if len(words) == 0 {
		return ComplexityUnknown
	}

	totalLen := 0
	long := 0
	for _, w := range words {
		totalLen += utf8.RuneCountInString(strings.Trim(w, ".,!?;:"))
		if utf8.RuneCountInString(w) > 8 {
			long++
		}
	}

	n := float64(len(words))
	meanLen := float64(totalLen) / n
	technical := float64(long) / n

	switch {
	case meanLen > 6 || technical > 0.15:
		return ComplexityHigh
	case meanLen > 5 || technical > 0.08:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}
