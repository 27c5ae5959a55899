package youtube

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeExecutor struct {
	mu          sync.Mutex
	calls       [][]string
	title       string
	titleErr    error
	transcript  string
	downloadErr error
	skipOutput  bool
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	switch {
	case argAfter(args, "--print") == "title":
		return f.title + "\n", f.titleErr
	case name == "yt-dlp":
		if f.downloadErr != nil {
			return "", f.downloadErr
		}
		out := strings.Replace(argAfter(args, "-o"), ".%(ext)s", ".wav", 1)
		return "", os.WriteFile(out, []byte("RIFF"), 0o600)
	default:
		if !f.skipOutput {
			prefix := argAfter(args, "--output-file")
			if err := os.WriteFile(prefix+".txt", []byte(f.transcript), 0o600); err != nil {
				return "", err
			}
		}
		return "", nil
	}
}

type stepRecorder struct {
	steps []string
}

func (s *stepRecorder) Update(message string, _ int) {
	s.steps = append(s.steps, message)
}

func newTestTranscriber(t *testing.T, exec *fakeExecutor) (*Transcriber, string) {
	t.Helper()
	dir := t.TempDir()
	tr := NewTranscriber(Config{
		YtDlpPath:   "yt-dlp",
		WhisperPath: "whisper-cli",
		ModelPath:   "/models/ggml-base.bin",
		TempDir:     dir,
	}, exec, zaptest.NewLogger(t))
	tr.newID = func() string { return "fixed" }
	tr.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return tr, dir
}

func TestTranscriber_Transcribe(t *testing.T) {
	exec := &fakeExecutor{title: "Never Gonna", transcript: "  hello there General Kenobi  \n"}
	tr, dir := newTestTranscriber(t, exec)
	steps := &stepRecorder{}

	got, err := tr.Transcribe(context.Background(), testURL, steps)
	require.NoError(t, err)

	assert.Equal(t, "Never Gonna", got.Title)
	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "hello there General Kenobi", got.Text)
	assert.Equal(t, "Hello there. General Kenobi.", got.Formatted())
	assert.NotEmpty(t, steps.steps)

	require.Len(t, exec.calls, 3)
	prefix := filepath.Join(dir, TempPrefix+"fixed")

	download := exec.calls[1]
	assert.Equal(t, "yt-dlp", download[0])
	assert.Contains(t, download, "-x")
	assert.Equal(t, "wav", argAfter(download, "--audio-format"))
	assert.Equal(t, "ffmpeg:-ar 16000 -ac 1", argAfter(download, "--postprocessor-args"))
	assert.Equal(t, prefix+".%(ext)s", argAfter(download, "-o"))
	assert.Equal(t, testURL, download[len(download)-1])

	whisper := exec.calls[2]
	assert.Equal(t, "whisper-cli", whisper[0])
	assert.Equal(t, "/models/ggml-base.bin", argAfter(whisper, "-m"))
	assert.Equal(t, prefix+".wav", argAfter(whisper, "-f"))
	assert.Equal(t, "en", argAfter(whisper, "-l"))
	assert.Equal(t, "4", argAfter(whisper, "-t"))
	assert.Equal(t, prefix, argAfter(whisper, "--output-file"))
	assert.Contains(t, whisper, "-otxt")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files must be removed")
}

func TestTranscriber_Errors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		exec := &fakeExecutor{}
		tr, _ := newTestTranscriber(t, exec)
		_, err := tr.Transcribe(context.Background(), "https://vimeo.com/1", nil)
		assert.ErrorIs(t, err, ErrInvalidURL)
		assert.Empty(t, exec.calls)
	})

	t.Run("download failure", func(t *testing.T) {
		exec := &fakeExecutor{title: "x", downloadErr: errors.New("HTTP Error 403")}
		tr, dir := newTestTranscriber(t, exec)
		_, err := tr.Transcribe(context.Background(), testURL, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download audio")

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("missing whisper output", func(t *testing.T) {
		exec := &fakeExecutor{title: "x", skipOutput: true}
		tr, dir := newTestTranscriber(t, exec)
		_, err := tr.Transcribe(context.Background(), testURL, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read transcript")

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})
}

func TestTranscriber_Title(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
		want string
	}{
		{name: "from yt-dlp", exec: &fakeExecutor{title: "  Spaced Title "}, want: "Spaced Title"},
		{name: "lookup error", exec: &fakeExecutor{titleErr: errors.New("offline")}, want: DefaultTitle},
		{name: "blank", exec: &fakeExecutor{title: "  "}, want: DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTranscriber(t, tt.exec)
			assert.Equal(t, tt.want, tr.Title(context.Background(), testURL))
		})
	}
}

func TestTranscriber_Run(t *testing.T) {
	text := "The main goal of this talk is to explain the results of our research. " +
		"Teams should adopt the method before the next release."

	t.Run("transcript only", func(t *testing.T) {
		tr, _ := newTestTranscriber(t, &fakeExecutor{title: "Talk", transcript: text})
		out, err := tr.Run(context.Background(), testURL, false, nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.Report, "YouTube Video Transcription\n"))
		assert.NotContains(t, out.Report, SummaryTitle)
		assert.Nil(t, out.Summary)
	})

	t.Run("with summary", func(t *testing.T) {
		tr, _ := newTestTranscriber(t, &fakeExecutor{title: "Talk", transcript: text})
		out, err := tr.Run(context.Background(), testURL, true, &stepRecorder{})
		require.NoError(t, err)
		assert.Contains(t, out.Report, "\n\n"+SummaryTitle+"\n")
		assert.Contains(t, out.Report, "📋 MAIN POINTS & KEY TAKEAWAYS:")
		require.NotNil(t, out.Summary)
		assert.Equal(t, "Talk", out.Transcript.Title)
	})
}
