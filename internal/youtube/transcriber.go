package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/dualmind/internal/executor"
	"github.com/a3tai/dualmind/internal/intelligence"
	"github.com/a3tai/dualmind/internal/task"
)

// TempPrefix starts the name of every temporary audio file
const TempPrefix = "dualmind_audio_"

// SummaryTitle heads the report generated from a transcript
const SummaryTitle = "YouTube Transcript Analysis"

// Config holds the external tool settings for transcription
type Config struct {
	YtDlpPath   string
	WhisperPath string
	ModelPath   string
	Language    string
	Threads     int
	TempDir     string
}

// Transcriber downloads audio with yt-dlp and transcribes it with whisper.cpp
type Transcriber struct {
	cfg        Config
	exec       executor.Executor
	summarizer *intelligence.Summarizer
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewTranscriber creates a transcriber; empty settings fall back to defaults
func NewTranscriber(cfg Config, exec executor.Executor, logger *zap.Logger) *Transcriber {
	if cfg.YtDlpPath == "" {
		cfg.YtDlpPath = "yt-dlp"
	}
	if cfg.WhisperPath == "" {
		cfg.WhisperPath = "whisper-cli"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	summaryCfg := intelligence.DefaultConfig()
	summaryCfg.Title = SummaryTitle

	return &Transcriber{
		cfg:        cfg,
		exec:       exec,
		summarizer: intelligence.NewSummarizerWithConfig(summaryCfg),
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Transcribe downloads the audio track of url and transcribes it.
// Temporary audio and text files are removed whatever the outcome.
func (t *Transcriber) Transcribe(ctx context.Context, url string, progress task.Reporter) (*Transcript, error) {
	if progress == nil {
		progress = task.NopReporter
	}

	progress.Update("Validating YouTube URL...", 5)
	if !ValidateURL(url) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}

	progress.Update("Getting video information...", 10)
	title := t.Title(ctx, url)

	prefix := filepath.Join(t.cfg.TempDir, TempPrefix+t.newID())
	audio := prefix + ".wav"
	textFile := prefix + ".txt"
	defer t.remove(audio, textFile)

	progress.Update("Downloading audio...", 20)
	if err := t.download(ctx, url, prefix); err != nil {
		return nil, err
	}

	progress.Update("Transcribing audio...", 50)
	text, err := t.transcribe(ctx, audio, prefix, textFile)
	if err != nil {
		return nil, err
	}

	progress.Update("Formatting results...", 90)
	t.logger.Info("transcription complete",
		zap.String("url", url),
		zap.Int("characters", len(text)))

	return &Transcript{
		Title:     title,
		URL:       url,
		VideoID:   ExtractVideoID(url),
		Language:  t.cfg.Language,
		Text:      text,
		Processed: t.now(),
	}, nil
}

// Result is a rendered transcript with its optional summary
type Result struct {
	Transcript *Transcript
	Summary    *intelligence.Summary
	Report     string
}

// Run transcribes url and renders the transcript, followed by its
// summary report when summarize is set
func (t *Transcriber) Run(ctx context.Context, url string, summarize bool, progress task.Reporter) (*Result, error) {
	transcript, err := t.Transcribe(ctx, url, progress)
	if err != nil {
		return nil, err
	}

	result := &Result{Transcript: transcript, Report: transcript.Render()}
	if summarize {
		if progress != nil {
			progress.Update("Analyzing transcript...", 95)
		}
		result.Summary = t.summarizer.Analyze(transcript.Text)
		result.Report += "\n\n" + intelligence.Render(result.Summary)
	}
	return result, nil
}

// Title asks yt-dlp for the video title, falling back to DefaultTitle
func (t *Transcriber) Title(ctx context.Context, url string) string {
	out, err := t.exec.Execute(ctx, t.cfg.YtDlpPath, "--print", "title", "--skip-download", "--no-warnings", url)
	if err != nil {
		t.logger.Debug("title lookup failed", zap.String("url", url), zap.Error(err))
		return DefaultTitle
	}
	title := strings.TrimSpace(out)
	if title == "" {
		return DefaultTitle
	}
	return title
}

func (t *Transcriber) download(ctx context.Context, url, prefix string) error {
	args := []string{
		"-x",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"-o", prefix + ".%(ext)s",
		url,
	}
	if _, err := t.exec.Execute(ctx, t.cfg.YtDlpPath, args...); err != nil {
		return fmt.Errorf("download audio: %w", err)
	}
	return nil
}

func (t *Transcriber) transcribe(ctx context.Context, audio, prefix, textFile string) (string, error) {
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audio,
		"-otxt",
		"-l", t.cfg.Language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"--output-file", prefix,
	}
	if _, err := t.exec.Execute(ctx, t.cfg.WhisperPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(textFile)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (t *Transcriber) remove(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("failed to cleanup temp file", zap.String("path", p), zap.Error(err))
		}
	}
}
