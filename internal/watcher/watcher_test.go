package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatcher_Accepts(t *testing.T) {
	w, err := New(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer w.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"/in/report.pdf", true},
		{"/in/REPORT.PDF", true},
		{"/in/notes.txt", true},
		{"/in/image.png", false},
		{"/in/.hidden.pdf", false},
		{"/in/DualMind_report_20240101_000000.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Accepts(tt.path))
		})
	}
}

func TestWatcher_DispatchesNewDocuments(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(path))
		return nil
	}

	w, err := New(dir, handler, zaptest.NewLogger(t), WithSettleDelay(0), WithMaxConcurrent(1))
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the event loop a moment to start.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "picture.png"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DualMind_out.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.pdf"), []byte("x"), 0o600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"paper.pdf"}, seen)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.Error(t, err)
}
