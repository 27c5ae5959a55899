package pdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := writeFile(t, dir, "garbage.pdf", []byte("this is not a pdf document"))

	tests := []struct {
		name     string
		path     string
		wantKind ErrorKind
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), wantKind: KindNotFound},
		{name: "not a pdf", path: garbage, wantKind: KindCorrupted},
	}

	inspector := NewInspector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := inspector.PageCount(tt.path)
			require.Error(t, err)
			assert.Zero(t, pages)
			assert.Equal(t, tt.wantKind, KindOf(err))

			encrypted, err := inspector.Encrypted(tt.path)
			require.Error(t, err)
			assert.False(t, encrypted)
		})
	}
}

func TestStats_GetFileInfoErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", []byte("hello"))
	writeFile(t, dir, "empty.pdf", nil)
	writeFile(t, dir, "broken.pdf", []byte("%PDF-1.4 but nothing else"))

	tests := []struct {
		name     string
		file     string
		wantKind ErrorKind
	}{
		{name: "missing", file: "missing.pdf", wantKind: KindNotFound},
		{name: "wrong extension", file: "notes.txt", wantKind: KindInvalidFile},
		{name: "empty", file: "empty.pdf", wantKind: KindInvalidFile},
		{name: "unreadable", file: "broken.pdf", wantKind: KindCorrupted},
	}

	stats := NewStats(1024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := stats.GetFileInfo(filepath.Join(dir, tt.file))
			require.Error(t, err)
			assert.Nil(t, info)
			assert.Equal(t, tt.wantKind, KindOf(err))
		})
	}
}
