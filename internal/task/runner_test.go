package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	r := NewRunner(zaptest.NewLogger(t), opts...)
	t.Cleanup(r.Close)
	return r
}

func awaitResult(t *testing.T, h *Handle) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.Await(ctx)
}

func blockingTask(started chan<- struct{}, release <-chan struct{}) Func {
	return func(ctx context.Context, progress Reporter) (string, error) {
		close(started)
		<-release
		return "released", nil
	}
}

func TestRunnerSubmitAndAwait(t *testing.T) {
	r := newTestRunner(t)

	h, err := r.Submit("text", func(ctx context.Context, p Reporter) (string, error) {
		p.Update("Analyzing content and generating summary...", 50)
		return "report", nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID())
	assert.Equal(t, "text", h.Kind())

	result, err := awaitResult(t, h)
	require.NoError(t, err)
	assert.Equal(t, "report", result)

	snap := h.Poll()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Percent)
	assert.Equal(t, "report", snap.Result)
	require.Len(t, snap.Steps, 1)
	assert.Equal(t, "Analyzing content and generating summary...", snap.Steps[0].Message)
	assert.False(t, snap.FinishedAt.Before(snap.StartedAt))

	found, err := r.Lookup(h.ID())
	require.NoError(t, err)
	assert.Same(t, h, found)
}

func TestRunnerSingleWorker(t *testing.T) {
	r := newTestRunner(t)

	var inFlight, peak atomic.Int32
	task := func(ctx context.Context, p Reporter) (string, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "", nil
	}

	var handles []*Handle
	for i := 0; i < 5; i++ {
		h, err := r.Submit("pdf", task)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	for _, h := range handles {
		_, err := awaitResult(t, h)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), peak.Load())
}

func TestRunnerCancelQueuedTask(t *testing.T) {
	r := newTestRunner(t)
	started := make(chan struct{})
	release := make(chan struct{})

	first, err := r.Submit("pdf", blockingTask(started, release))
	require.NoError(t, err)
	<-started

	var ran atomic.Bool
	second, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
		ran.Store(true)
		return "should not run", nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, second.Poll().Status)

	assert.True(t, second.Cancel())
	close(release)

	_, err = awaitResult(t, second)
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, StatusCanceled, second.Poll().Status)
	assert.False(t, ran.Load())

	result, err := awaitResult(t, first)
	require.NoError(t, err)
	assert.Equal(t, "released", result)
}

func TestHandleCancelAndStart(t *testing.T) {
	noop := func(ctx context.Context, p Reporter) (string, error) { return "", nil }

	t.Run("cancel before start", func(t *testing.T) {
		h := newHandle("a", "pdf", noop, time.Now)
		assert.True(t, h.Cancel())
		assert.False(t, h.start())
		assert.Equal(t, StatusQueued, h.Poll().Status)
	})

	t.Run("start before cancel", func(t *testing.T) {
		h := newHandle("b", "pdf", noop, time.Now)
		assert.True(t, h.start())
		assert.False(t, h.Cancel())
		assert.Equal(t, StatusRunning, h.Poll().Status)
	})
}

func TestRunnerCancelResultIsTruthful(t *testing.T) {
	r := newTestRunner(t)

	for i := 0; i < 200; i++ {
		var ran atomic.Bool
		h, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
			ran.Store(true)
			return "done", nil
		})
		require.NoError(t, err)

		canceled := h.Cancel()
		_, err = awaitResult(t, h)

		if canceled {
			assert.ErrorIs(t, err, ErrCanceled)
			assert.False(t, ran.Load(), "iteration %d ran after a successful cancel", i)
		} else {
			assert.NoError(t, err)
			assert.True(t, ran.Load(), "iteration %d", i)
		}
	}
}

func TestRunnerCancelRunningTaskCompletes(t *testing.T) {
	r := newTestRunner(t)
	started := make(chan struct{})
	release := make(chan struct{})

	h, err := r.Submit("youtube", blockingTask(started, release))
	require.NoError(t, err)
	<-started

	assert.False(t, h.Cancel())
	close(release)

	result, err := awaitResult(t, h)
	require.NoError(t, err)
	assert.Equal(t, "released", result)
	assert.Equal(t, StatusCompleted, h.Poll().Status)
}

func TestRunnerFailures(t *testing.T) {
	tests := []struct {
		name    string
		fn      Func
		wantErr string
	}{
		{
			name: "returned error",
			fn: func(ctx context.Context, p Reporter) (string, error) {
				return "", errors.New("extraction failed")
			},
			wantErr: "extraction failed",
		},
		{
			name: "panic",
			fn: func(ctx context.Context, p Reporter) (string, error) {
				panic("boom")
			},
			wantErr: "task panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t)
			h, err := r.Submit("pdf", tt.fn)
			require.NoError(t, err)

			_, err = awaitResult(t, h)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())

			snap := h.Poll()
			assert.Equal(t, StatusFailed, snap.Status)
			assert.Equal(t, tt.wantErr, snap.Error)
		})
	}
}

func TestHandleKeepsLastTenSteps(t *testing.T) {
	r := newTestRunner(t)

	h, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
		for i := 0; i < 15; i++ {
			p.Update(fmt.Sprintf("step %d", i), i*10)
		}
		return "", nil
	})
	require.NoError(t, err)
	_, err = awaitResult(t, h)
	require.NoError(t, err)

	steps := h.Poll().Steps
	require.Len(t, steps, maxSteps)
	assert.Equal(t, "step 5", steps[0].Message)
	assert.Equal(t, "step 14", steps[9].Message)
	assert.Equal(t, 100, steps[9].Percent)
}

func TestRunnerLookupUnknown(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Lookup("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRunnerClosed(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	r.Close()
	r.Close()

	_, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) { return "", nil })
	assert.ErrorIs(t, err, ErrRunnerClosed)
}

func TestRunnerCloseCancelsQueued(t *testing.T) {
	r := NewRunner(zaptest.NewLogger(t))
	started := make(chan struct{})

	first, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	require.NoError(t, err)
	<-started

	second, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
		return "late", nil
	})
	require.NoError(t, err)

	r.Close()

	_, err = awaitResult(t, first)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = awaitResult(t, second)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestRunnerQueueFull(t *testing.T) {
	r := newTestRunner(t, WithQueueSize(1))
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	_, err := r.Submit("pdf", blockingTask(started, release))
	require.NoError(t, err)
	<-started

	noop := func(ctx context.Context, p Reporter) (string, error) { return "", nil }
	_, err = r.Submit("pdf", noop)
	require.NoError(t, err)

	_, err = r.Submit("pdf", noop)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestRunnerAwaitContext(t *testing.T) {
	r := newTestRunner(t)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	h, err := r.Submit("pdf", blockingTask(started, release))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerRetention(t *testing.T) {
	r := newTestRunner(t, WithRetention(time.Millisecond))
	noop := func(ctx context.Context, p Reporter) (string, error) { return "", nil }

	old, err := r.Submit("pdf", noop)
	require.NoError(t, err)
	_, err = awaitResult(t, old)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = r.Submit("pdf", noop)
	require.NoError(t, err)

	_, err = r.Lookup(old.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRunnerRetentionWhileIdle(t *testing.T) {
	r := newTestRunner(t, WithRetention(time.Millisecond))
	noop := func(ctx context.Context, p Reporter) (string, error) { return "", nil }

	h, err := r.Submit("pdf", noop)
	require.NoError(t, err)
	_, err = awaitResult(t, h)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	assert.Empty(t, r.List())
	_, err = r.Lookup(h.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRunnerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newTestRunner(t, WithMetrics(m))

	ok, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) { return "x", nil })
	require.NoError(t, err)
	_, _ = awaitResult(t, ok)

	bad, err := r.Submit("pdf", func(ctx context.Context, p Reporter) (string, error) {
		return "", errors.New("bad")
	})
	require.NoError(t, err)
	_, _ = awaitResult(t, bad)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasks.WithLabelValues("pdf", string(StatusCompleted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasks.WithLabelValues("pdf", string(StatusFailed))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
