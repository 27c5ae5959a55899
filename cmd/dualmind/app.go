package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/a3tai/dualmind/internal/cleanup"
	"github.com/a3tai/dualmind/internal/config"
	"github.com/a3tai/dualmind/internal/executor"
	"github.com/a3tai/dualmind/internal/export"
	"github.com/a3tai/dualmind/internal/mcp"
	"github.com/a3tai/dualmind/internal/pdf"
	"github.com/a3tai/dualmind/internal/pipeline"
	"github.com/a3tai/dualmind/internal/store"
	"github.com/a3tai/dualmind/internal/task"
	"github.com/a3tai/dualmind/internal/watcher"
	"github.com/a3tai/dualmind/internal/youtube"
)

const progressPollInterval = 200 * time.Millisecond

// app holds the long-lived services shared by every mode
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	docs     *pdf.Service
	runner   *task.Runner
	history  *store.Store
	janitor  *cleanup.Janitor
	pipeline *pipeline.Pipeline
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	docs, err := pdf.NewService(cfg.MaxFileSize, documentRoot(cfg), logger.Named("pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		docs:     docs,
		runner:   task.NewRunner(logger.Named("tasks"), task.WithMetrics(task.NewMetrics(registry))),
		janitor:  cleanup.New(cfg.TempDir, cfg.CleanupInterval, logger.Named("janitor"), registry),
	}

	if cfg.HistoryEnabled() {
		a.history, err = store.Open(cfg.HistoryDB)
		if err != nil {
			a.runner.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}

	opts := []pipeline.Option{}
	if a.history != nil {
		opts = append(opts, pipeline.WithHistory(a.history))
	}
	if cfg.WhisperModel != "" {
		transcriber := youtube.NewTranscriber(youtube.Config{
			YtDlpPath:   cfg.YtDlpPath,
			WhisperPath: cfg.WhisperPath,
			ModelPath:   cfg.WhisperModel,
			Language:    cfg.WhisperLanguage,
			Threads:     cfg.WhisperThreads,
			TempDir:     cfg.TempDir,
		}, executor.New(logger.Named("exec")), logger.Named("youtube"))
		opts = append(opts, pipeline.WithTranscripts(transcriber))
	}
	if cfg.OutputDir != "" {
		format, err := export.ParseFormat(cfg.OutputFormat)
		if err != nil {
			a.Close()
			return nil, err
		}
		if cfg.Mode == config.ModeCLI || cfg.Mode == config.ModeWatch {
			opts = append(opts, pipeline.WithExport(cfg.OutputDir, format))
		} else {
			opts = append(opts, pipeline.WithExportDir(cfg.OutputDir))
		}
	}
	a.pipeline = pipeline.New(a.runner, docs, logger.Named("pipeline"), opts...)

	return a, nil
}

// documentRoot scopes file access. A CLI input file may live anywhere, so
// the root becomes the directory holding it.
func documentRoot(cfg *config.Config) string {
	if cfg.Mode != config.ModeCLI || youtube.ValidateURL(cfg.Input) {
		return cfg.Directory
	}
	return filepath.Dir(cliInput(cfg))
}

// cliInput returns the CLI input with file paths made absolute
func cliInput(cfg *config.Config) string {
	if youtube.ValidateURL(cfg.Input) {
		return cfg.Input
	}
	abs, err := filepath.Abs(cfg.Input)
	if err != nil {
		return cfg.Input
	}
	return abs
}

// Close stops the runner and closes the history database
func (a *app) Close() {
	a.runner.Close()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history", zap.Error(err))
		}
	}
}

// runMCP serves the MCP tools over stdio or SSE
func (a *app) runMCP(ctx context.Context) error {
	server, err := mcp.NewServer(a.cfg, mcp.Deps{
		Documents: a.docs,
		Pipeline:  a.pipeline,
		Runner:    a.runner,
		History:   a.history,
		Janitor:   a.janitor,
		Gatherer:  a.registry,
		Logger:    a.logger.Named("mcp"),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Run(ctx); err != nil {
		return err
	}
	a.logger.Info("server stopped successfully")
	return nil
}

// runCLI processes cfg.Input once, writing progress to stderr and the
// report to stdout
func (a *app) runCLI(ctx context.Context, stdout, stderr io.Writer) error {
	h, err := a.pipeline.SubmitInput(cliInput(a.cfg), true)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	var last time.Time
	report := func() {
		for _, step := range h.Poll().Steps {
			if step.At.After(last) {
				fmt.Fprintf(stderr, "[%3d%%] %s\n", step.Percent, step.Message)
				last = step.At
			}
		}
	}

	for {
		select {
		case <-h.Done():
			report()
			result, err := h.Await(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, result)
			return nil
		case <-ticker.C:
			report()
		case <-ctx.Done():
			h.Cancel()
			return ctx.Err()
		}
	}
}

// runWatch summarizes every document dropped into the document directory
func (a *app) runWatch(ctx context.Context) error {
	handler := func(ctx context.Context, path string) error {
		a.docs.Forget()

		h, err := a.pipeline.SubmitFile(path)
		if err != nil {
			return err
		}
		if _, err := h.Await(ctx); err != nil {
			return err
		}
		a.logger.Info("document processed", zap.String("path", path), zap.String("task_id", h.ID()))
		return nil
	}

	w, err := watcher.New(a.cfg.Directory, handler, a.logger.Named("watcher"))
	if err != nil {
		return err
	}
	defer w.Stop()

	a.logger.Info("watching for documents",
		zap.String("dir", a.cfg.Directory),
		zap.String("output_dir", a.cfg.OutputDir),
		zap.String("format", a.cfg.OutputFormat))

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
