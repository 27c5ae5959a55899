package intelligence

import (
	"strings"
	"unicode/utf8"
)

// Config configures a Summarizer
type Config struct {
	Title   string
	Lexicon *Lexicon
}

// DefaultConfig returns the configuration used for PDF documents
func DefaultConfig() Config {
	return Config{
		Title:   DefaultTitle,
		Lexicon: DefaultLexicon(),
	}
}

// Summarizer runs the extractive summarization pipeline.
// It holds no mutable state and is safe for concurrent use.
type Summarizer struct {
	title      string
	scorer     *Scorer
	extractor  *Extractor
	classifier *Classifier
	structure  *StructureAnalyzer
}

// NewSummarizer creates a summarizer with the default configuration
func NewSummarizer() *Summarizer {
	return NewSummarizerWithConfig(DefaultConfig())
}

// NewSummarizerWithConfig creates a summarizer with a custom configuration
func NewSummarizerWithConfig(cfg Config) *Summarizer {
	lex := cfg.Lexicon
	if lex == nil {
		lex = DefaultLexicon()
	}
	scorer := NewScorer(lex)

	return &Summarizer{
		title:      cfg.Title,
		scorer:     scorer,
		extractor:  NewExtractor(lex, scorer),
		classifier: NewClassifier(lex),
		structure:  NewStructureAnalyzer(lex),
	}
}

// Analyze runs every stage over text and returns the structured results
func (s *Summarizer) Analyze(text string) *Summary {
	if strings.TrimSpace(text) == "" {
		return &Summary{Title: s.title, Empty: true, Complexity: ComplexityUnknown}
	}

	doc := NewDocument(text)
	important := s.scorer.Important(doc.Sentences)

	return &Summary{
		Title:          s.title,
		WordCount:      doc.WordCount(),
		SentenceCount:  doc.SentenceCount(),
		CharacterCount: utf8.RuneCountInString(text),
		MainPoints:     s.extractor.MainPoints(doc.Sentences, important),
		KeyInsights:    s.extractor.KeyInsights(doc.Sentences),
		ActionItems:    s.extractor.ActionItems(doc.Sentences),
		Important:      important,
		KeyPhrases:     ExtractKeyPhrases(text, s.scorer.lex),
		DocumentType:   s.classifier.DocumentType(text),
		Complexity:     s.classifier.Complexity(doc.Words),
		Structure:      s.structure.Analyze(text),
		ReadingTime:    ReadingTime(doc.WordCount()),
	}
}

// Summarize analyzes text and renders the report
func (s *Summarizer) Summarize(text string) string {
	return Render(s.Analyze(text))
}

// Summarize renders a report for text using the default configuration
func Summarize(text string) string {
	return NewSummarizer().Summarize(text)
}
