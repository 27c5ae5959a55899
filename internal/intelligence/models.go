package intelligence

import (
	"unicode/utf8"
)

// DocumentType is the coarse category assigned to a document by keyword matching
type DocumentType string

const (
	DocumentTypeResearch DocumentType = "Research Paper/Study"
	DocumentTypeReport   DocumentType = "Report/Analysis"
	DocumentTypeManual   DocumentType = "Manual/Guide"
	DocumentTypeProposal DocumentType = "Proposal/Plan"
	DocumentTypePolicy   DocumentType = "Policy/Procedure"
	DocumentTypeGeneral  DocumentType = "General Document"
)

// ComplexityTier is the lexical sophistication level of a text
type ComplexityTier string

const (
	ComplexityUnknown ComplexityTier = "unknown"
	ComplexityLow     ComplexityTier = "low"
	ComplexityMedium  ComplexityTier = "medium"
	ComplexityHigh    ComplexityTier = "high"
)

// Label returns the display label used in rendered reports
func (c ComplexityTier) Label() string {
	switch c {
	case ComplexityHigh:
		return "High (Technical/Specialized)"
	case ComplexityMedium:
		return "Medium (Professional)"
	case ComplexityLow:
		return "Low (General Audience)"
	default:
		return "Unknown"
	}
}

// Document is the immutable input of a single summarization call.
// Sentences are derived once and shared by every extractor.
type Document struct {
	Text      string     `json:"-"`
	Words     []string   `json:"-"`
	Sentences []Sentence `json:"sentences"`
}

// WordCount returns the number of whitespace separated words
func (d *Document) WordCount() int {
	return len(d.Words)
}

// SentenceCount returns the number of sentences that survived segmentation
func (d *Document) SentenceCount() int {
	return len(d.Sentences)
}

// IsEmpty reports whether the document has no words at all
func (d *Document) IsEmpty() bool {
	return len(d.Words) == 0
}

// Sentence is a trimmed slice of the document with its position
type Sentence struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Len returns the sentence length in characters
func (s Sentence) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// ScoredSentence pairs a sentence with its heuristic importance score.
// The original position is carried by Sentence.Index.
type ScoredSentence struct {
	Score    int      `json:"score"`
	Sentence Sentence `json:"sentence"`
}

// KeyPhrase is a frequency-significant content word
type KeyPhrase struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Structure describes page count and detected section kinds
type Structure struct {
	PageCount int      `json:"page_count"`
	Elements  []string `json:"elements"`
}

// Summary holds every structured result of one summarization call
type Summary struct {
	Title          string           `json:"title"`
	Empty          bool             `json:"empty"`
	WordCount      int              `json:"word_count"`
	SentenceCount  int              `json:"sentence_count"`
	CharacterCount int              `json:"character_count"`
	MainPoints     []string         `json:"main_points"`
	KeyInsights    []string         `json:"key_insights"`
	ActionItems    []string         `json:"action_items"`
	Important      []ScoredSentence `json:"important_sentences"`
	KeyPhrases     []KeyPhrase      `json:"key_phrases"`
	DocumentType   DocumentType     `json:"document_type"`
	Complexity     ComplexityTier   `json:"complexity"`
	Structure      Structure        `json:"structure"`
	ReadingTime    string           `json:"reading_time"`
}

// ImportantTexts returns the selected important sentences as plain strings
func (s *Summary) ImportantTexts() []string {
	texts := make([]string, 0, len(s.Important))
	for _, scored := range s.Important {
		texts = append(texts, scored.Sentence.Text)
	}
	return texts
}
