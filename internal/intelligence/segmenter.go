package intelligence

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceDelimiter = regexp.MustCompile(`[.!?]+`)

// SplitSentences splits text on runs of sentence punctuation.
// Pieces of minSentenceLength characters or fewer are dropped as fragments.
func SplitSentences(text string) []Sentence {
	parts := sentenceDelimiter.Split(text, -1)
	sentences := make([]Sentence, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= minSentenceLength {
			continue
		}
		sentences = append(sentences, Sentence{Text: part, Index: len(sentences)})
	}

	return sentences
}

// NewDocument tokenizes text once for all analysis stages
func NewDocument(text string) *Document {
	return &Document{
		Text:      text,
		Words:     strings.Fields(text),
		Sentences: SplitSentences(text),
	}
}
