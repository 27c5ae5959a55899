package task

import (
	"context"
	"sync"
	"time"
)

// Status is the lifecycle state of a task
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// IsTerminal reports whether the task will not change state again
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

const maxSteps = 10

// Step is one progress update
type Step struct {
	Message string    `json:"message"`
	Percent int       `json:"percent"`
	At      time.Time `json:"at"`
}

// Snapshot is a point-in-time copy of a task's state
type Snapshot struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Status      Status    `json:"status"`
	Percent     int       `json:"percent"`
	Message     string    `json:"message"`
	Steps       []Step    `json:"steps"`
	Result      string    `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
}

// Reporter receives progress updates from running work
type Reporter interface {
	Update(message string, percent int)
}

type nopReporter struct{}

func (nopReporter) Update(string, int) {}

// NopReporter discards progress updates
var NopReporter Reporter = nopReporter{}

// Func is the unit of work executed by a Runner
type Func func(ctx context.Context, progress Reporter) (string, error)

// Handle is the caller's view of a submitted task
type Handle struct {
	id   string
	kind string
	fn   Func
	now  func() time.Time

	done chan struct{}

	mu       sync.RWMutex
	snap     Snapshot
	canceled bool
	result   string
	err      error
}

func newHandle(id, kind string, fn Func, now func() time.Time) *Handle {
	return &Handle{
		id:   id,
		kind: kind,
		fn:   fn,
		now:  now,
		done: make(chan struct{}),
		snap: Snapshot{
			ID:          id,
			Kind:        kind,
			Status:      StatusQueued,
			Message:     "Queued",
			SubmittedAt: now(),
		},
	}
}

// ID returns the task identifier
func (h *Handle) ID() string {
	return h.id
}

// Kind returns the task kind given at submission
func (h *Handle) Kind() string {
	return h.kind
}

// Poll returns the current state without blocking
func (h *Handle) Poll() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := h.snap
	snap.Steps = append([]Step(nil), h.snap.Steps...)
	return snap
}

// Done is closed once the task reaches a terminal state
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Await blocks until the task finishes or ctx is done
func (h *Handle) Await(ctx context.Context) (string, error) {
	select {
	case <-h.done:
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.result, h.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Cancel flags a queued task as canceled so the runner skips it. A task
// that is already running completes normally. It returns false when the
// task had already started.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.snap.Status != StatusQueued {
		return false
	}
	h.canceled = true
	return true
}

// Update records a progress step, keeping the most recent ones
func (h *Handle) Update(message string, percent int) {
	percent = min(max(percent, 0), 100)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.snap.Status.IsTerminal() {
		return
	}

	h.snap.Message = message
	h.snap.Percent = percent
	h.snap.Steps = append(h.snap.Steps, Step{Message: message, Percent: percent, At: h.now()})
	if len(h.snap.Steps) > maxSteps {
		h.snap.Steps = h.snap.Steps[len(h.snap.Steps)-maxSteps:]
	}
}

// start moves a queued task to running. It returns false if the task was
// canceled first.
func (h *Handle) start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.canceled {
		return false
	}
	h.snap.Status = StatusRunning
	h.snap.StartedAt = h.now()
	h.snap.Message = "Started"
	return true
}

func (h *Handle) finish(status Status, result string, err error) {
	h.mu.Lock()
	h.snap.Status = status
	h.snap.FinishedAt = h.now()
	h.result = result
	h.err = err

	switch status {
	case StatusCompleted:
		h.snap.Percent = 100
		h.snap.Message = "Processing completed successfully"
		h.snap.Result = result
	case StatusCanceled:
		h.snap.Message = "Canceled"
	default:
		h.snap.Message = "Failed"
	}
	if err != nil {
		h.snap.Error = err.Error()
	}
	h.mu.Unlock()

	close(h.done)
}

func (h *Handle) finishedBefore(t time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap.Status.IsTerminal() && h.snap.FinishedAt.Before(t)
}
