package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestReader_ReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader(1024, zaptest.NewLogger(t))

	tests := []struct {
		name string
		path string
		want ErrorKind
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), want: KindNotFound},
		{name: "wrong extension", path: writeFile(t, dir, "notes.txt", []byte("hello")), want: KindInvalidFile},
		{name: "empty file", path: writeFile(t, dir, "empty.pdf", nil), want: KindInvalidFile},
		{name: "too large", path: writeFile(t, dir, "large.pdf", make([]byte, 2048)), want: KindTooLarge},
		{name: "not a pdf", path: writeFile(t, dir, "fake.pdf", []byte("this is plain text, not a PDF")), want: KindCorrupted},
		{name: "directory", path: func() string {
			p := filepath.Join(dir, "folder.pdf")
			require.NoError(t, os.Mkdir(p, 0o750))
			return p
		}(), want: KindInvalidFile},
		{name: "empty path", path: "", want: KindInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := reader.ReadFile(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, ex)
			assert.Equal(t, tt.want, KindOf(err), err.Error())
		})
	}
}

func TestReader_ReadBytesErrors(t *testing.T) {
	reader := NewReader(64, nil)

	t.Run("empty", func(t *testing.T) {
		_, err := reader.ReadBytes(context.Background(), "a.pdf", nil)
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := reader.ReadBytes(context.Background(), "a.pdf", make([]byte, 65))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := reader.ReadBytes(context.Background(), "a.pdf", []byte("definitely not a pdf"))
		assert.ErrorIs(t, err, ErrCorrupted)
	})
}
