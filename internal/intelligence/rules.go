package intelligence

// Scoring and selection thresholds
const (
	minSentenceLength  = 10
	minKeyPhraseLength = 3
	maxKeyPhrases      = 10

	maxImportantSentences = 5
	// Two picks must be at least this many positions apart.
	minImportantGap = 4

	openingBand   = 0.15
	closingBand   = 0.85
	middleBandLow = 0.4
	middleBandHi  = 0.6

	maxMainPoints   = 4
	maxKeyInsights  = 3
	maxActionItems  = 3
	minMainPointLen = 15
	mainPointTopUp  = 3

	wordsPerMinute = 200
)

// LengthRange is an inclusive character length window
type LengthRange struct {
	Min int
	Max int
}

// Contains reports whether n falls inside the window
func (r LengthRange) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// TypeRule maps a set of keywords to a document type
type TypeRule struct {
	Type     DocumentType
	Keywords []string
}

// StructureRule maps a set of keywords to a structure element label
type StructureRule struct {
	Label    string
	Keywords []string
}

// Lexicon holds the read-only word tables used by the summarizer.
// A Lexicon is shared by reference and never modified after construction.
type Lexicon struct {
	StopWords map[string]struct{}

	ImportanceKeywords []string
	StrongOpeners      []string
	TransitionOpeners  []string
	DataMarkers        []string

	MainPointIndicators []string
	MainPointRange      LengthRange
	BulletMarkers       []string
	BulletRange         LengthRange

	InsightIndicators []string
	InsightRange      LengthRange

	ActionIndicators []string
	ActionRange      LengthRange

	TypeRules      []TypeRule
	StructureRules []StructureRule
}

// IsStopWord reports whether word is a stop word
func (l *Lexicon) IsStopWord(word string) bool {
	_, ok := l.StopWords[word]
	return ok
}

var defaultLexicon = newDefaultLexicon()

// DefaultLexicon returns the shared English lexicon
func DefaultLexicon() *Lexicon {
	return defaultLexicon
}

func newDefaultLexicon() *Lexicon {
	stopWords := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
		"by", "from", "up", "about", "into", "through", "during", "before", "after",
		"above", "below", "between", "among", "this", "that", "these", "those", "i", "me",
		"my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours", "yourself",
		"he", "him", "his", "himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which", "who", "whom",
		"whose", "am", "is", "are", "was", "were", "be",
		"been", "being", "have", "has", "had", "having", "do", "does", "did", "doing",
		"will", "would", "could", "should", "may", "might", "must", "can", "shall",
	}

	lex := &Lexicon{
		StopWords: make(map[string]struct{}, len(stopWords)),

		ImportanceKeywords: []string{
			"important", "significant", "key", "main", "primary", "essential", "critical",
			"conclusion", "result", "finding", "discovery", "breakthrough", "analysis",
			"summary", "overview", "objective", "goal", "purpose", "recommendation",
			"solution", "problem", "issue", "challenge", "opportunity", "benefit",
			"advantage", "strategy", "approach", "method", "technique", "process",
		},
		StrongOpeners: []string{
			"The main", "The key", "The primary", "The most important", "In conclusion", "To summarize",
		},
		TransitionOpeners: []string{
			"However", "Therefore", "Thus", "Furthermore", "Moreover", "Additionally",
		},
		DataMarkers: []string{
			"percent", "%", "data", "statistics", "study", "research",
		},

		MainPointIndicators: []string{
			"the main", "the key", "the primary", "the most important", "the central",
			"in summary", "in conclusion", "to conclude", "overall", "the purpose",
			"the objective", "the goal", "the result", "the finding", "the outcome",
			"it is important", "it is essential", "it is critical", "it is necessary",
			"research shows", "studies indicate", "evidence suggests", "data reveals",
		},
		MainPointRange: LengthRange{Min: 30, Max: 300},
		BulletMarkers:  []string{"1.", "2.", "3.", "•", "-", "*"},
		BulletRange:    LengthRange{Min: 20, Max: 250},

		InsightIndicators: []string{
			"this suggests", "this indicates", "this shows", "this demonstrates",
			"therefore", "thus", "hence", "consequently", "as a result",
			"it appears", "it seems", "evidence shows", "analysis reveals",
			"findings suggest", "research indicates", "studies show",
			"implications", "significance", "importance", "impact",
		},
		InsightRange: LengthRange{Min: 25, Max: 280},

		ActionIndicators: []string{
			"should", "must", "need to", "recommend", "suggest", "propose",
			"it is recommended", "it is suggested", "it is advisable",
			"next steps", "action items", "implementation", "follow up",
			"consider", "ensure", "implement", "establish", "develop",
			"future work", "further research", "next phase",
		},
		ActionRange: LengthRange{Min: 20, Max: 250},

		TypeRules: []TypeRule{
			{Type: DocumentTypeResearch, Keywords: []string{"research", "study", "methodology", "hypothesis"}},
			{Type: DocumentTypeReport, Keywords: []string{"report", "analysis", "assessment", "evaluation"}},
			{Type: DocumentTypeManual, Keywords: []string{"manual", "guide", "instructions", "tutorial"}},
			{Type: DocumentTypeProposal, Keywords: []string{"proposal", "plan", "strategy", "roadmap"}},
			{Type: DocumentTypePolicy, Keywords: []string{"policy", "procedure", "regulation", "compliance"}},
		},
		StructureRules: []StructureRule{
			{Label: "Abstract/Summary section", Keywords: []string{"abstract", "summary"}},
			{Label: "Introduction/Background", Keywords: []string{"introduction", "background"}},
			{Label: "Conclusion/Results section", Keywords: []string{"conclusion", "results", "findings"}},
			{Label: "References/Bibliography", Keywords: []string{"reference", "bibliography", "citation"}},
			{Label: "Tables/Figures present", Keywords: []string{"table", "figure", "chart"}},
		},
	}

	for _, w := range stopWords {
		lex.StopWords[w] = struct{}{}
	}

	return lex
}
