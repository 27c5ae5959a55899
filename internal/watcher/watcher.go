// Package watcher feeds new documents dropped into a directory to a handler.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultSettleDelay   = 500 * time.Millisecond
	defaultMaxConcurrent = 2
)

// ExportPrefix marks files written by the exporter, which are never picked up
const ExportPrefix = "DualMind_"

// EventHandler processes one newly created file
type EventHandler func(ctx context.Context, filePath string) error

// Option configures a Watcher
type Option func(*Watcher)

// WithSettleDelay sets how long to wait for a new file to be fully written
func WithSettleDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.settleDelay = d
		}
	}
}

// WithMaxConcurrent bounds the number of handlers running at once
func WithMaxConcurrent(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.maxConcurrent = n
		}
	}
}

// WithExtensions sets the accepted file extensions
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = exts
	}
}

// Watcher monitors a directory for new documents
type Watcher struct {
	inputDir      string
	handler       EventHandler
	logger        *zap.Logger
	watcher       *fsnotify.Watcher
	settleDelay   time.Duration
	maxConcurrent int
	extensions    []string
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// New creates a watcher on inputDir
func New(inputDir string, handler EventHandler, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        logger,
		watcher:       fsw,
		settleDelay:   defaultSettleDelay,
		maxConcurrent: defaultMaxConcurrent,
		extensions:    []string{".pdf", ".txt"},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.semaphore = make(chan struct{}, w.maxConcurrent)

	return w, nil
}

// Start blocks, dispatching new documents to the handler until ctx is done.
// In-flight handlers are awaited before it returns.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("file watcher started",
		zap.String("dir", w.inputDir),
		zap.Strings("extensions", w.extensions),
		zap.Int("max_concurrent", w.maxConcurrent))

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.logger.Info("file watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.Accepts(event.Name) {
				w.logger.Debug("ignoring file", zap.String("path", event.Name))
				continue
			}

			w.logger.Info("new document detected", zap.String("path", event.Name))
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wg.Wait()
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// Stop closes the file watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Accepts reports whether path is a document the watcher should process
func (w *Watcher) Accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, ExportPrefix) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, accepted := range w.extensions {
		if ext == accepted {
			return true
		}
	}
	return false
}

func (w *Watcher) dispatch(ctx context.Context, path string) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		// Give the writer a moment to finish the file.
		select {
		case <-time.After(w.settleDelay):
		case <-ctx.Done():
			return
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error("failed to process document", zap.String("path", path), zap.Error(err))
		}
	}()
	return nil
}
