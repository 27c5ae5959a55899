package pdf

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"
)

// FileInfo is the metadata reported for a single PDF
type FileInfo struct {
	Path        string  `json:"path"`
	Name        string  `json:"name"`
	Size        int64   `json:"size_bytes"`
	SizeMB      float64 `json:"size_mb"`
	HumanSize   string  `json:"human_size"`
	Modified    string  `json:"modified"`
	Pages       int     `json:"pages"`
	Encrypted   bool    `json:"encrypted"`
	Title       string  `json:"title,omitempty"`
	Author      string  `json:"author,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	Producer    string  `json:"producer,omitempty"`
	CreatedDate string  `json:"created_date,omitempty"`
}

// Stats handles PDF metadata operations
type Stats struct {
	validator *Validator
	inspector *Inspector
}

// NewStats creates a new PDF stats analyzer with the specified constraints
func NewStats(maxFileSize int64) *Stats {
	return &Stats{
		validator: NewValidator(maxFileSize),
		inspector: NewInspector(),
	}
}

// GetFileInfo returns file and document metadata without extracting text.
// Page count comes from pdfcpu and falls back to the text reader.
func (s *Stats) GetFileInfo(path string) (*FileInfo, error) {
	info, err := s.validator.checkFile(path)
	if err != nil {
		return nil, err
	}

	result := &FileInfo{
		Path:      path,
		Name:      displayName(path),
		Size:      info.Size(),
		SizeMB:    math.Round(float64(info.Size())/(1024*1024)*100) / 100,
		HumanSize: humanize.IBytes(uint64(info.Size())),
		Modified:  info.ModTime().Format("2006-01-02 15:04:05"),
	}

	result.Encrypted, _ = s.inspector.Encrypted(path)

	if pages, err := s.inspector.PageCount(path); err == nil {
		result.Pages = pages
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		if result.Pages > 0 {
			return result, nil
		}
		return nil, classifyOpenError(path, err)
	}
	defer f.Close()

	if result.Pages == 0 {
		result.Pages = r.NumPage()
	}
	s.extractMetadata(r, result)

	return result, nil
}

// extractMetadata safely extracts metadata from PDF reader
func (s *Stats) extractMetadata(r *pdf.Reader, result *FileInfo) {
	defer func() {
		// Metadata is optional; a malformed Info dictionary leaves fields empty.
		_ = recover()
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return
	}

	info := trailer.Key("Info")
	if info.IsNull() {
		return
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"Title", &result.Title},
		{"Author", &result.Author},
		{"Subject", &result.Subject},
		{"Producer", &result.Producer},
		{"CreationDate", &result.CreatedDate},
	}

	for _, f := range fields {
		if v := info.Key(f.key); !v.IsNull() {
			*f.dst = strings.TrimSpace(v.Text())
		}
	}
}
