// Package export writes reports to plain text and Word files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrEmptyContent is returned when there is nothing to export
	ErrEmptyContent = errors.New("cannot save empty content")
	// ErrUnsupportedFormat is returned for unknown export formats
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Format is an export file format
type Format string

const (
	FormatText Format = "txt"
	FormatWord Format = "docx"
)

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat accepts a format name or extension, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "txt", "text":
		return FormatText, nil
	case "docx", "word":
		return FormatWord, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// SupportedFormats lists the formats Save accepts
func SupportedFormats() []Format {
	return []Format{FormatText, FormatWord}
}

const timestampLayout = "2006-01-02 15:04:05"

// Exporter saves report content to disk
type Exporter struct {
	now func() time.Time
}

// New creates an exporter using the wall clock
func New() *Exporter {
	return &Exporter{now: time.Now}
}

// Save writes content to path in the given format
func (e *Exporter) Save(content, path string, format Format) error {
	switch format {
	case FormatText:
		return e.SaveText(content, path)
	case FormatWord:
		return e.SaveWord(content, path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveText writes content with the plain text export header
func (e *Exporter) SaveText(content, path string) error {
	if err := prepare(content, path); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("DUALMIND - EXPORTED RESULTS\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString("Exported: " + e.now().Format(timestampLayout) + "\n")
	b.WriteString("File: " + filepath.Base(path) + "\n\n")
	b.WriteString("CONTENT:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	b.WriteString(content)
	b.WriteString("\n\n" + strings.Repeat("=", 50))

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to save text file: %w", err)
	}
	return nil
}

// prepare rejects blank content and creates the output directory
func prepare(content, path string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}
