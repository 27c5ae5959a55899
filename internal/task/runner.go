package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCanceled     = errors.New("task canceled")
	ErrRunnerClosed = errors.New("task runner closed")
	ErrQueueFull    = errors.New("task queue full")
	ErrTaskNotFound = errors.New("task not found")
)

const (
	defaultQueueSize = 64
	// Finished tasks stay visible to Lookup for this long.
	defaultRetention = 5 * time.Minute
)

// Option configures a Runner
type Option func(*Runner)

// WithQueueSize sets how many tasks may wait behind the running one
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithRetention sets how long finished tasks remain retrievable
func WithRetention(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.retention = d
		}
	}
}

// WithMetrics attaches prometheus metrics
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// Runner executes submitted tasks one at a time on a single worker
type Runner struct {
	logger    *zap.Logger
	metrics   *Metrics
	queueSize int
	retention time.Duration
	now       func() time.Time

	queue  chan *Handle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	handles map[string]*Handle
	closed  bool
}

// NewRunner creates a runner and starts its worker
func NewRunner(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		logger:    logger,
		queueSize: defaultQueueSize,
		retention: defaultRetention,
		now:       time.Now,
		handles:   make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.queue = make(chan *Handle, r.queueSize)
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go r.work()

	return r
}

// Submit queues fn and returns a handle to it
func (r *Runner) Submit(kind string, fn Func) (*Handle, error) {
	if fn == nil {
		return nil, fmt.Errorf("task function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRunnerClosed
	}
	r.pruneLocked()

	h := newHandle(uuid.NewString(), kind, fn, r.now)

	select {
	case r.queue <- h:
	default:
		return nil, ErrQueueFull
	}

	r.handles[h.id] = h
	r.metrics.setQueueDepth(len(r.queue))
	r.logger.Debug("task queued", zap.String("task_id", h.id), zap.String("kind", kind))

	return h, nil
}

// Lookup returns a live or recently finished task
func (r *Runner) Lookup(id string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()

	h, ok := r.handles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return h, nil
}

// List returns snapshots of all retained tasks, oldest first
func (r *Runner) List() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()

	out := make([]Snapshot, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h.Poll())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Close stops accepting tasks, cancels the running one through its context,
// marks queued tasks canceled and waits for the worker to exit.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}

func (r *Runner) work() {
	defer r.wg.Done()

	for h := range r.queue {
		r.metrics.setQueueDepth(len(r.queue))

		if r.ctx.Err() != nil || !h.start() {
			r.metrics.observe(h.kind, StatusCanceled, 0)
			h.finish(StatusCanceled, "", ErrCanceled)
			r.logger.Info("task canceled before start", zap.String("task_id", h.id))
			continue
		}

		r.run(h)
	}
}

func (r *Runner) run(h *Handle) {
	started := r.now()
	r.logger.Info("task started", zap.String("task_id", h.id), zap.String("kind", h.kind))

	result, err := r.invoke(h)
	elapsed := r.now().Sub(started)

	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		r.logger.Warn("task failed",
			zap.String("task_id", h.id),
			zap.String("kind", h.kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	} else {
		r.logger.Info("task completed",
			zap.String("task_id", h.id),
			zap.String("kind", h.kind),
			zap.Duration("elapsed", elapsed))
	}

	r.metrics.observe(h.kind, status, elapsed.Seconds())
	h.finish(status, result, err)
}

func (r *Runner) invoke(h *Handle) (result string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return h.fn(r.ctx, h)
}

func (r *Runner) pruneLocked() {
	cutoff := r.now().Add(-r.retention)
	for id, h := range r.handles {
		if h.finishedBefore(cutoff) {
			delete(r.handles, id)
		}
	}
}
