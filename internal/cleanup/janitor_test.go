package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func touch(t *testing.T, dir, name string, size int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestJanitor_Sweep(t *testing.T) {
	dir := t.TempDir()
	reg := prometheus.NewRegistry()
	j := New(dir, time.Second, zaptest.NewLogger(t), reg)

	old := touch(t, dir, "dualmind_audio_1.wav", 100, time.Minute)
	fresh := touch(t, dir, "dualmind_audio_2.wav", 50, 0)
	partial := touch(t, dir, "dualmind_audio_3.wav.part", 10, time.Hour)
	foreign := touch(t, dir, "someone_else.wav", 10, time.Hour)
	foreignPartial := touch(t, dir, "firefox-download.iso.part", 10, time.Hour)
	foreignYtdl := touch(t, dir, "clip.ytdl", 10, time.Hour)

	res := j.Sweep()
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, int64(110), res.BytesFreed)

	assert.NoFileExists(t, old)
	assert.NoFileExists(t, partial)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
	assert.FileExists(t, foreignPartial)
	assert.FileExists(t, foreignYtdl)

	assert.Equal(t, 1.0, testutil.ToFloat64(j.files))
	assert.Equal(t, 50.0, testutil.ToFloat64(j.bytes))
}

func TestJanitor_SweepNow(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 0, nil, nil)

	touch(t, dir, "dualmind_audio_1.wav", 10, 0)
	touch(t, dir, "dualmind_audio_1.wav.ytdl", 5, 0)
	touch(t, dir, "clip.ytdl", 5, 0)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dualmind_dir"), 0o750))

	res := j.SweepNow()
	assert.Equal(t, Result{Removed: 2, BytesFreed: 15}, res)
	assert.DirExists(t, filepath.Join(dir, "dualmind_dir"))
	assert.Equal(t, Usage{}, j.Usage())
	assert.FileExists(t, filepath.Join(dir, "clip.ytdl"))
}

func TestJanitor_Accumulating(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 0, nil, nil)

	for i := 0; i < accumulatingFiles; i++ {
		touch(t, dir, "dualmind_"+string(rune('a'+i)), 1, 0)
	}
	assert.False(t, j.Accumulating())

	touch(t, dir, "dualmind_last", 1, 0)
	assert.True(t, j.Accumulating())
	assert.Equal(t, "21 files, 21 B", j.Usage().String())
}

func TestJanitor_RunStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 10*time.Millisecond, zaptest.NewLogger(t), nil)
	j.now = func() time.Time { return time.Now().Add(time.Hour) }
	path := touch(t, dir, "dualmind_x", 1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
