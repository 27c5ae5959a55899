package intelligence

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Tokenize lowercases text and splits it into word tokens with punctuation removed
func Tokenize(text string) []string {
	return strings.Fields(nonWordChars.ReplaceAllString(strings.ToLower(text), " "))
}

// ExtractKeyPhrases returns up to maxKeyPhrases content words ordered by
// frequency. Words seen only once never qualify. Ties keep first-seen order.
func ExtractKeyPhrases(text string, lex *Lexicon) []KeyPhrase {
	counts := make(map[string]int)
	var order []string

	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) <= minKeyPhraseLength || lex.IsStopWord(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	phrases := make([]KeyPhrase, 0, len(order))
	for _, term := range order {
		phrases = append(phrases, KeyPhrase{Term: term, Count: counts[term]})
	}

	sort.SliceStable(phrases, func(i, j int) bool {
		return phrases[i].Count > phrases[j].Count
	})

	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}

	result := make([]KeyPhrase, 0, len(phrases))
	for _, p := range phrases {
		if p.Count > 1 {
			result = append(result, p)
		}
	}

	return result
}
