package intelligence

import (
	"strings"
	"unicode/utf8"
)

// Extractor pulls indicator-driven sentence lists out of a document
type Extractor struct {
	lex    *Lexicon
	scorer *Scorer
}

// NewExtractor creates an extractor sharing the scorer's lexicon
func NewExtractor(lex *Lexicon, scorer *Scorer) *Extractor {
	return &Extractor{lex: lex, scorer: scorer}
}

// MainPoints collects indicator or bullet sentences. When fewer than three
// are found the important sentences are appended before de-duplication.
func (e *Extractor) MainPoints(sentences []Sentence, important []ScoredSentence) []string {
	var points []string

	for _, s := range sentences {
		lower := strings.ToLower(s.Text)
		n := s.Len()

		if containsAny(lower, e.lex.MainPointIndicators) && e.lex.MainPointRange.Contains(n) {
			points = append(points, s.Text)
		}
		if hasAnyPrefix(s.Text, e.lex.BulletMarkers) && e.lex.BulletRange.Contains(n) {
			points = append(points, s.Text)
		}
	}

	if len(points) < mainPointTopUp {
		if important == nil {
			important = e.scorer.Important(sentences)
		}
		for i, scored := range important {
			if i >= maxImportantSentences {
				break
			}
			points = append(points, scored.Sentence.Text)
		}
	}

	seen := make(map[string]struct{}, len(points))
	unique := make([]string, 0, maxMainPoints)
	for _, p := range points {
		if _, dup := seen[p]; dup {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(p)) <= minMainPointLen {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
		if len(unique) == maxMainPoints {
			break
		}
	}

	return unique
}

// KeyInsights returns sentences that state a conclusion or implication
func (e *Extractor) KeyInsights(sentences []Sentence) []string {
	return collect(sentences, e.lex.InsightIndicators, e.lex.InsightRange, maxKeyInsights)
}

// ActionItems returns sentences that recommend or require an action
func (e *Extractor) ActionItems(sentences []Sentence) []string {
	return collect(sentences, e.lex.ActionIndicators, e.lex.ActionRange, maxActionItems)
}

func collect(sentences []Sentence, indicators []string, window LengthRange, limit int) []string {
	var out []string
	for _, s := range sentences {
		if len(out) >= limit {
			break
		}
		if !window.Contains(s.Len()) {
			continue
		}
		if containsAny(strings.ToLower(s.Text), indicators) {
			out = append(out, s.Text)
		}
	}
	return out
}
