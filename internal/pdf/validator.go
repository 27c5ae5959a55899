package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxFileSize is the largest PDF accepted for summarization
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// ValidationResult reports whether a file can be summarized
type ValidationResult struct {
	Path    string    `json:"path"`
	Valid   bool      `json:"valid"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
	Pages   int       `json:"pages,omitempty"`
}

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	inspector   *Inspector
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{
		maxFileSize: maxFileSize,
		inspector:   NewInspector(),
	}
}

// ValidateFile performs comprehensive validation on a PDF file.
// Validation problems are reported in the result, not as an error.
func (v *Validator) ValidateFile(path string) *ValidationResult {
	result := &ValidationResult{Path: path}

	if err := v.validatePDFFile(path); err != nil {
		result.Kind = KindOf(err)
		result.Message = err.Error()
		return result
	}

	pages, err := v.inspector.PageCount(path)
	if err != nil {
		result.Kind = KindOf(err)
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(path string) bool {
	return v.validatePDFFile(path) == nil
}

func (v *Validator) validatePDFFile(path string) error {
	if _, err := v.checkFile(path); err != nil {
		return err
	}

	// Try to open the PDF to validate it's a valid PDF file
	f, _, err := pdf.Open(path)
	if err != nil {
		return classifyOpenError(path, err)
	}
	return f.Close()
}

// checkFile validates existence, extension and size without parsing
func (v *Validator) checkFile(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, newError(KindInvalidFile, "", "path cannot be empty", nil)
	}

	info, err := statFile(path)
	if err != nil {
		return nil, err
	}

	if err := v.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return newError(KindInvalidFile, path, "path is a directory, not a file", nil)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return newError(KindInvalidFile, path, "file must be a PDF", nil)
	}

	if info.Size() == 0 {
		return newError(KindInvalidFile, path, "file is empty", nil)
	}

	if info.Size() > v.maxFileSize {
		return newError(KindTooLarge, path,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize), nil)
	}

	return nil
}
