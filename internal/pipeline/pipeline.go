// Package pipeline turns an input (PDF, text or YouTube URL) into a task
// that produces a report, records it in history and optionally exports it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/dualmind/internal/export"
	"github.com/a3tai/dualmind/internal/intelligence"
	"github.com/a3tai/dualmind/internal/store"
	"github.com/a3tai/dualmind/internal/task"
	"github.com/a3tai/dualmind/internal/youtube"
)

var (
	// ErrUnsupportedInput is returned for inputs that are neither a PDF, a
	// text file nor a YouTube URL
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrTranscriptionDisabled is returned when no transcriber is configured
	ErrTranscriptionDisabled = errors.New("youtube transcription is not configured")
)

// Documents analyzes local documents and raw text
type Documents interface {
	Analyze(ctx context.Context, path string, progress task.Reporter) (*intelligence.Outcome, error)
	AnalyzeTextFile(ctx context.Context, path string, progress task.Reporter) (*intelligence.Outcome, error)
	AnalyzeText(name, text string) *intelligence.Outcome
}

// Transcripts turns a video URL into a transcript and optional summary
type Transcripts interface {
	Run(ctx context.Context, url string, summarize bool, progress task.Reporter) (*youtube.Result, error)
}

// History records finished reports
type History interface {
	Save(ctx context.Context, r *store.Report) error
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTranscripts enables YouTube inputs
func WithTranscripts(t Transcripts) Option {
	return func(p *Pipeline) {
		p.videos = t
	}
}

// WithHistory records every finished report
func WithHistory(h History) Option {
	return func(p *Pipeline) {
		p.history = h
	}
}

// WithExport writes every finished report to dir in the given format
func WithExport(dir string, format export.Format) Option {
	return func(p *Pipeline) {
		p.outputDir = dir
		p.format = format
		p.autoExport = true
	}
}

// WithExportDir sets where Export writes without exporting every report
func WithExportDir(dir string) Option {
	return func(p *Pipeline) {
		p.outputDir = dir
	}
}

// Pipeline submits summarization work to a task runner
type Pipeline struct {
	runner     *task.Runner
	docs       Documents
	videos     Transcripts
	history    History
	exporter   *export.Exporter
	outputDir  string
	format     export.Format
	autoExport bool
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a pipeline backed by runner
func New(runner *task.Runner, docs Documents, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		runner:   runner,
		docs:     docs,
		exporter: export.New(),
		format:   export.FormatText,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SubmitInput dispatches a CLI style input: a YouTube URL or a file path
func (p *Pipeline) SubmitInput(input string, summarize bool) (*task.Handle, error) {
	input = strings.TrimSpace(input)
	if youtube.ValidateURL(input) {
		return p.SubmitYouTube(input, summarize)
	}
	return p.SubmitFile(input)
}

// SubmitFile queues a PDF or .txt file by extension
func (p *Pipeline) SubmitFile(path string) (*task.Handle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return p.SubmitPDF(path)
	case ".txt":
		return p.SubmitTextFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
}

// SubmitPDF queues the summarization of a PDF file
func (p *Pipeline) SubmitPDF(path string) (*task.Handle, error) {
	return p.runner.Submit(string(store.KindPDF), func(ctx context.Context, progress task.Reporter) (string, error) {
		outcome, err := p.docs.Analyze(ctx, path, progress)
		if err != nil {
			return "", err
		}
		return p.finish(ctx, store.NewReport(store.KindPDF, stem(outcome.Source), outcome)), nil
	})
}

// SubmitTextFile queues the summarization of a plain text file
func (p *Pipeline) SubmitTextFile(path string) (*task.Handle, error) {
	return p.runner.Submit(string(store.KindText), func(ctx context.Context, progress task.Reporter) (string, error) {
		outcome, err := p.docs.AnalyzeTextFile(ctx, path, progress)
		if err != nil {
			return "", err
		}
		return p.finish(ctx, store.NewReport(store.KindText, stem(outcome.Source), outcome)), nil
	})
}

// SubmitText queues the summarization of raw text
func (p *Pipeline) SubmitText(title, text string) (*task.Handle, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text cannot be empty")
	}
	return p.runner.Submit(string(store.KindText), func(ctx context.Context, progress task.Reporter) (string, error) {
		progress.Update("Analyzing content and generating summary...", 60)
		outcome := p.docs.AnalyzeText(title, text)
		return p.finish(ctx, store.NewReport(store.KindText, outcome.Source, outcome)), nil
	})
}

// SubmitYouTube queues the transcription of a video, optionally summarized
func (p *Pipeline) SubmitYouTube(url string, summarize bool) (*task.Handle, error) {
	if p.videos == nil {
		return nil, ErrTranscriptionDisabled
	}
	if !youtube.ValidateURL(url) {
		return nil, fmt.Errorf("%w: %s", youtube.ErrInvalidURL, url)
	}
	return p.runner.Submit(string(store.KindYouTube), func(ctx context.Context, progress task.Reporter) (string, error) {
		result, err := p.videos.Run(ctx, url, summarize, progress)
		if err != nil {
			return "", err
		}
		return p.finish(ctx, transcriptReport(result)), nil
	})
}

func transcriptReport(result *youtube.Result) *store.Report {
	t := result.Transcript
	r := store.NewReport(store.KindYouTube, t.Title, &intelligence.Outcome{
		Source:  t.URL,
		Report:  result.Report,
		Summary: result.Summary,
	})
	if result.Summary == nil {
		r.WordCount = len(strings.Fields(t.Text))
	}
	return r
}

// finish records and exports a report and returns its body. Neither step
// fails the task; the report is still returned to the caller.
func (p *Pipeline) finish(ctx context.Context, r *store.Report) string {
	if p.history != nil {
		if err := p.history.Save(ctx, r); err != nil {
			p.logger.Warn("failed to record report", zap.String("source", r.Source), zap.Error(err))
		}
	}

	if p.autoExport {
		path, err := p.Export(r.Body, r.Title, p.format, "")
		if err != nil {
			p.logger.Warn("failed to export report", zap.String("source", r.Source), zap.Error(err))
		} else {
			p.logger.Info("report exported", zap.String("path", path))
		}
	}

	return r.Body
}

// Export writes content into the output directory. An empty filename is
// generated from base and the current time.
func (p *Pipeline) Export(content, base string, format export.Format, filename string) (string, error) {
	if p.outputDir == "" {
		return "", errors.New("no output directory configured")
	}

	if filename == "" {
		filename = export.ExportFilename(base, format.Extension(), p.now())
	} else {
		filename = export.CleanFilename(filename)
		if !strings.EqualFold(filepath.Ext(filename), format.Extension()) {
			filename += format.Extension()
		}
	}

	path := filepath.Join(p.outputDir, filename)
	if err := p.exporter.Save(content, path, format); err != nil {
		return "", err
	}
	return path, nil
}

// OutputDir returns the export directory, empty when exports are disabled
func (p *Pipeline) OutputDir() string {
	return p.outputDir
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
