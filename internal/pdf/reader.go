package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extraction is the plain text of a PDF with page markers
type Extraction struct {
	Path          string `json:"path"`
	Text          string `json:"-"`
	Pages         int    `json:"pages"`
	PagesWithText int    `json:"pages_with_text"`
	Size          int64  `json:"size"`
	Truncated     bool   `json:"truncated"`
}

// Reader extracts text from PDF files
type Reader struct {
	maxFileSize int64
	maxTextSize int
	validator   *Validator
	logger      *zap.Logger
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		validator:   NewValidator(maxFileSize),
		logger:      logger,
	}
}

// ReadFile validates path and extracts its text. Every page with text
// is preceded by a "--- Page N ---" marker line.
func (r *Reader) ReadFile(ctx context.Context, path string) (*Extraction, error) {
	info, err := r.validator.checkFile(path)
	if err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}
	defer f.Close()

	ex, err := r.extract(ctx, path, reader)
	if err != nil {
		return nil, err
	}
	ex.Size = info.Size()
	return ex, nil
}

// ReadBytes extracts text from an in-memory PDF
func (r *Reader) ReadBytes(ctx context.Context, name string, data []byte) (*Extraction, error) {
	if len(data) == 0 {
		return nil, newError(KindInvalidFile, name, "file is empty", nil)
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, newError(KindTooLarge, name,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize), nil)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, classifyOpenError(name, err)
	}

	ex, err := r.extract(ctx, name, reader)
	if err != nil {
		return nil, err
	}
	ex.Size = int64(len(data))
	return ex, nil
}

func (r *Reader) extract(ctx context.Context, path string, reader *pdf.Reader) (*Extraction, error) {
	total := reader.NumPage()
	if total == 0 {
		return nil, newError(KindCorrupted, path, "PDF appears to be empty or corrupted", nil)
	}

	var builder strings.Builder
	ex := &Extraction{Path: path, Pages: total}

	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := r.pageText(reader, pageNum)
		if err != nil {
			r.logger.Warn("could not extract text from page",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if builder.Len()+len(text) > r.maxTextSize {
			ex.Truncated = true
			r.logger.Warn("text limit reached, remaining pages skipped",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Int("limit", r.maxTextSize))
			break
		}

		fmt.Fprintf(&builder, "\n--- Page %d ---\n", pageNum)
		builder.WriteString(text)
		builder.WriteString("\n")
		ex.PagesWithText++
	}

	ex.Text = strings.TrimSpace(builder.String())
	if ex.Text == "" {
		return nil, newError(KindEmptyDocument, path,
			"no text content could be extracted from the PDF; it might contain only images", nil)
	}

	return ex, nil
}

// pageText extracts one page, turning parser panics into errors
func (r *Reader) pageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("page parser panic: %v", p)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// displayName returns the base name used in reports
func displayName(path string) string {
	return filepath.Base(path)
}

// statFile wraps os.Stat with typed errors
func statFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, newError(KindNotFound, path, "PDF file not found", err)
	}
	if err != nil {
		return nil, newError(KindInvalidFile, path, "cannot access file", err)
	}
	return info, nil
}
