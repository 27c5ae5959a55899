package intelligence

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const endToEndText = "The main finding of this study is significant. " +
	"However, the data shows otherwise. " +
	"In conclusion, we recommend further research."

func newTestExtractor() *Extractor {
	lex := DefaultLexicon()
	return NewExtractor(lex, NewScorer(lex))
}

func sentencesOf(texts ...string) []Sentence {
	out := make([]Sentence, 0, len(texts))
	for i, t := range texts {
		out = append(out, Sentence{Text: t, Index: i})
	}
	return out
}

func TestMainPointsEndToEnd(t *testing.T) {
	e := newTestExtractor()
	sentences := SplitSentences(endToEndText)

	points := e.MainPoints(sentences, nil)

	assert.Equal(t, []string{
		"The main finding of this study is significant",
		"In conclusion, we recommend further research",
	}, points)
}

func TestMainPoints(t *testing.T) {
	e := newTestExtractor()

	t.Run("bullet markers", func(t *testing.T) {
		sentences := sentencesOf(
			"- Reduce cloud spend by consolidating clusters",
			"* Move nightly jobs to spot capacity",
			"• Retire the legacy reporting database",
			"Nothing special happens in this sentence",
		)
		points := e.MainPoints(sentences, nil)
		assert.Equal(t, []string{
			"- Reduce cloud spend by consolidating clusters",
			"* Move nightly jobs to spot capacity",
			"• Retire the legacy reporting database",
		}, points)
	})

	t.Run("capped and de-duplicated", func(t *testing.T) {
		sentences := sentencesOf(
			"The main goal of the first phase is speed",
			"The main goal of the first phase is speed",
			"Overall the second phase went as planned here",
			"In summary the third phase needs more budget",
			"The key outcome of phase four was adoption",
			"The purpose of phase five is consolidation",
		)
		points := e.MainPoints(sentences, nil)
		assert.Len(t, points, maxMainPoints)
		assert.Equal(t, "The main goal of the first phase is speed", points[0])
		assert.Equal(t, "Overall the second phase went as planned here", points[1])
	})

	t.Run("short top up entries are dropped", func(t *testing.T) {
		points := e.MainPoints(sentencesOf("Tiny words here"), nil)
		assert.Empty(t, points)
	})

	t.Run("indicator length window", func(t *testing.T) {
		long := "The main " + strings.Repeat("x", 300)
		points := e.MainPoints(sentencesOf(long), []ScoredSentence{})
		assert.Empty(t, points)
	})
}

func TestMainPointsInvariants(t *testing.T) {
	e := newTestExtractor()
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "The main lesson number %d is that it is important to measure. ", i%5)
	}
	sentences := SplitSentences(b.String())

	points := e.MainPoints(sentences, nil)

	assert.LessOrEqual(t, len(points), maxMainPoints)
	seen := make(map[string]bool)
	for _, p := range points {
		assert.False(t, seen[p], "duplicate %q", p)
		seen[p] = true
		assert.Greater(t, utf8.RuneCountInString(strings.TrimSpace(p)), 15)
	}
}

func TestKeyInsights(t *testing.T) {
	e := newTestExtractor()

	assert.Empty(t, e.KeyInsights(SplitSentences(endToEndText)))

	sentences := sentencesOf(
		"Thus the cache is too small",
		"Therefore we doubled the cache size last week",
		"This suggests the eviction policy is wrong too",
		"Unrelated sentence about lunch plans today",
		"As a result the hit rate improved by a lot",
		"Hence the latency dropped across the board",
	)
	assert.Equal(t, []string{
		"Thus the cache is too small",
		"Therefore we doubled the cache size last week",
		"This suggests the eviction policy is wrong too",
	}, e.KeyInsights(sentences))

	assert.Empty(t, e.KeyInsights(sentencesOf("Thus it is short here")))
}

func TestActionItems(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t,
		[]string{"In conclusion, we recommend further research"},
		e.ActionItems(SplitSentences(endToEndText)))

	sentences := sentencesOf(
		"We should rotate the keys",
		"Teams must review access quarterly",
		"Next steps include a vendor audit",
		"Consider moving backups offsite",
	)
	assert.Len(t, e.ActionItems(sentences), maxActionItems)
	assert.Empty(t, e.ActionItems(sentencesOf("You must go")))
}
