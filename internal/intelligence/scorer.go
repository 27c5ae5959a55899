package intelligence

import (
	"sort"
	"strings"
	"unicode"
)

// Scorer assigns heuristic importance scores to sentences
type Scorer struct {
	lex *Lexicon
}

// NewScorer creates a scorer backed by the given lexicon
func NewScorer(lex *Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score computes one score per sentence, preserving input order
func (s *Scorer) Score(sentences []Sentence) []ScoredSentence {
	scored := make([]ScoredSentence, 0, len(sentences))
	total := len(sentences)

	for i, sentence := range sentences {
		score := lengthScore(sentence.Len()) +
			positionScore(i, total) +
			s.keywordScore(sentence.Text) +
			s.openerScore(sentence.Text) +
			s.contentScore(sentence.Text)

		scored = append(scored, ScoredSentence{Score: score, Sentence: sentence})
	}

	return scored
}

// SelectImportant ranks scored sentences by score, keeping document order
// among equal scores, and greedily picks up to limit sentences that are at
// least minImportantGap positions away from every earlier pick.
func SelectImportant(scored []ScoredSentence, limit int) []ScoredSentence {
	ranked := make([]ScoredSentence, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	selected := make([]ScoredSentence, 0, limit)
	for _, candidate := range ranked {
		if len(selected) >= limit {
			break
		}
		if tooClose(candidate.Sentence.Index, selected) {
			continue
		}
		selected = append(selected, candidate)
	}

	return selected
}

// Important scores sentences and returns the diverse top picks
func (s *Scorer) Important(sentences []Sentence) []ScoredSentence {
	if len(sentences) == 0 {
		return nil
	}
	return SelectImportant(s.Score(sentences), maxImportantSentences)
}

func tooClose(index int, selected []ScoredSentence) bool {
	for _, sel := range selected {
		if abs(index-sel.Sentence.Index) < minImportantGap {
			return true
		}
	}
	return false
}

func lengthScore(n int) int {
	switch {
	case n >= 40 && n <= 250:
		return 3
	case n >= 20 && n <= 400:
		return 2
	case n > minSentenceLength:
		return 1
	default:
		return 0
	}
}

func positionScore(i, total int) int {
	pos := float64(i)
	n := float64(total)
	score := 0

	if pos < openingBand*n {
		score += 2
	}
	if pos > closingBand*n {
		score += 2
	}
	if pos >= middleBandLow*n && pos <= middleBandHi*n {
		score++
	}

	return score
}

func (s *Scorer) keywordScore(text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, keyword := range s.lex.ImportanceKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	return hits * 2
}

func (s *Scorer) openerScore(text string) int {
	score := 0
	if hasAnyPrefix(text, s.lex.StrongOpeners) {
		score += 3
	}
	if hasAnyPrefix(text, s.lex.TransitionOpeners) {
		score += 2
	}
	return score
}

func (s *Scorer) contentScore(text string) int {
	score := 0

	if strings.Contains(text, "?") {
		score++
	}
	if strings.Count(text, ",") > 2 {
		score++
	}
	if strings.IndexFunc(text, unicode.IsDigit) >= 0 {
		score++
	}
	if containsAny(strings.ToLower(text), s.lex.DataMarkers) {
		score += 2
	}

	return score
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
