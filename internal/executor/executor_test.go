package executor

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecute(t *testing.T) {
	skipOnWindows(t)
	exec := New(zaptest.NewLogger(t))

	t.Run("captures stdout", func(t *testing.T) {
		out, err := exec.Execute(context.Background(), "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out)
	})

	t.Run("includes stderr on failure", func(t *testing.T) {
		_, err := exec.Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stderr: broken")
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := exec.Execute(context.Background(), "dualmind-no-such-binary")
		assert.ErrorIs(t, err, ErrNotInstalled)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := exec.Execute(ctx, "sh", "-c", "sleep 5")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestNewInDir(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	out, err := NewInDir(nil, dir).Execute(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), filepath.Base(strings.TrimSpace(out)))
}
