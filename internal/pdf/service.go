package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/a3tai/dualmind/internal/intelligence"
	"github.com/a3tai/dualmind/internal/pdf/security"
	"github.com/a3tai/dualmind/internal/task"
)

// Progress messages reported while a document is summarized
const (
	StepExtracting = "Extracting text from PDF..."
	StepPreparing  = "Preparing document analysis..."
	StepAnalyzing  = "Analyzing content and generating summary..."
	StepFormatting = "Formatting final results..."
)

// Service handles PDF file operations by orchestrating various PDF components
type Service struct {
	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	library       *Library
	pathValidator *security.PathValidator
	summarizer    *intelligence.Summarizer
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string, logger *zap.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		reader:        NewReader(maxFileSize, logger),
		validator:     NewValidator(maxFileSize),
		stats:         NewStats(maxFileSize),
		search:        NewSearch(maxFileSize),
		library:       NewLibrary(),
		pathValidator: pathValidator,
		summarizer:    intelligence.NewSummarizer(),
		logger:        logger,
		now:           time.Now,
	}, nil
}

// Directory returns the configured document directory
func (s *Service) Directory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// Summarize extracts the text of a PDF and returns the enveloped report
func (s *Service) Summarize(ctx context.Context, path string, progress task.Reporter) (string, error) {
	outcome, err := s.Analyze(ctx, path, progress)
	if err != nil {
		return "", err
	}
	return outcome.Report, nil
}

// Analyze extracts and summarizes a PDF, keeping the structured summary
func (s *Service) Analyze(ctx context.Context, path string, progress task.Reporter) (*intelligence.Outcome, error) {
	if progress == nil {
		progress = task.NopReporter
	}

	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	progress.Update(StepExtracting, 10)
	extraction, err := s.reader.ReadFile(ctx, resolved)
	if err != nil {
		s.logger.Warn("pdf extraction failed", zap.String("path", resolved), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("pdf extracted",
		zap.String("path", resolved),
		zap.Int("pages", extraction.Pages),
		zap.Int("pages_with_text", extraction.PagesWithText),
		zap.Bool("truncated", extraction.Truncated))

	progress.Update(StepPreparing, 40)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress.Update(StepAnalyzing, 60)
	summary := s.summarizer.Analyze(extraction.Text)

	progress.Update(StepFormatting, 90)
	report := intelligence.Envelope{
		Heading:   intelligence.PDFHeading,
		Document:  displayName(resolved),
		Length:    utf8.RuneCountInString(extraction.Text),
		Processed: s.now(),
	}.Wrap(intelligence.Render(summary))

	return &intelligence.Outcome{Source: resolved, Report: report, Summary: summary}, nil
}

// SummarizeText summarizes raw text under the given document name
func (s *Service) SummarizeText(name, text string) string {
	return s.AnalyzeText(name, text).Report
}

// AnalyzeText summarizes raw text, keeping the structured summary
func (s *Service) AnalyzeText(name, text string) *intelligence.Outcome {
	if strings.TrimSpace(name) == "" {
		name = "Text input"
	}
	summary := s.summarizer.Analyze(text)
	report := intelligence.Envelope{
		Heading:   intelligence.TextHeading,
		Document:  name,
		Length:    utf8.RuneCountInString(text),
		Processed: s.now(),
	}.Wrap(intelligence.Render(summary))

	return &intelligence.Outcome{Source: name, Report: report, Summary: summary}
}

// AnalyzeTextFile reads a plain text file and summarizes it
func (s *Service) AnalyzeTextFile(ctx context.Context, path string, progress task.Reporter) (*intelligence.Outcome, error) {
	if progress == nil {
		progress = task.NopReporter
	}

	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	progress.Update("Reading text file...", 10)
	if _, err := statFile(resolved); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	progress.Update(StepAnalyzing, 60)
	outcome := s.AnalyzeText(displayName(resolved), string(data))
	outcome.Source = resolved
	return outcome, nil
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(path string) (*ValidationResult, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateFile(resolved), nil
}

// Info returns metadata about a single PDF file
func (s *Service) Info(path string) (*FileInfo, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return s.stats.GetFileInfo(resolved)
}

// SearchDirectory searches for PDF files in a directory
func (s *Service) SearchDirectory(directory, query string) (*SearchResult, error) {
	// If no directory specified, use configured directory
	if directory == "" {
		directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(directory, query)
}

// Library lists the PDFs in the configured directory, cached for a few minutes
func (s *Service) Library(ctx context.Context) (*LibraryScan, error) {
	return s.library.Scan(ctx, s.pathValidator.GetConfiguredDirectory())
}

// Forget drops cached directory listings after the library changes
func (s *Service) Forget() {
	s.library.Invalidate(s.pathValidator.GetConfiguredDirectory())
}

func (s *Service) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", newError(KindInvalidFile, "", "path cannot be empty", nil)
	}
	resolved, err := s.pathValidator.SanitizePath(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}
