package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrorKind classifies failures at the extraction boundary
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindInvalidFile
	KindTooLarge
	KindEmptyDocument
	KindEncrypted
	KindCorrupted
)

// String returns the stable name of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidFile:
		return "INVALID_FILE"
	case KindTooLarge:
		return "TOO_LARGE"
	case KindEmptyDocument:
		return "EMPTY_DOCUMENT"
	case KindEncrypted:
		return "ENCRYPTED"
	case KindCorrupted:
		return "CORRUPTED"
	default:
		return "UNKNOWN"
	}
}

// IsRecoverable reports whether retrying with a different input could help.
// Only a missing file is worth retrying as-is.
func (k ErrorKind) IsRecoverable() bool {
	return k == KindNotFound
}

// Sentinels for errors.Is matching by kind
var (
	ErrNotFound      = &ExtractionError{Kind: KindNotFound}
	ErrInvalidFile   = &ExtractionError{Kind: KindInvalidFile}
	ErrTooLarge      = &ExtractionError{Kind: KindTooLarge}
	ErrEmptyDocument = &ExtractionError{Kind: KindEmptyDocument}
	ErrEncrypted     = &ExtractionError{Kind: KindEncrypted}
	ErrCorrupted     = &ExtractionError{Kind: KindCorrupted}
)

// ExtractionError is the typed failure returned by the extraction boundary
type ExtractionError struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path,omitempty"`
	Page    int       `json:"page,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func newError(kind ErrorKind, path, message string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Path: path, Message: message, Err: err}
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Kind)
	if e.Message != "" {
		b.WriteString(" " + e.Message)
	}
	if e.Path != "" {
		b.WriteString(": " + e.Path)
	}
	if e.Page > 0 {
		fmt.Fprintf(&b, " (page %d)", e.Page)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches any ExtractionError of the same kind
func (e *ExtractionError) Is(target error) bool {
	var t *ExtractionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown when err is not an ExtractionError
func KindOf(err error) ErrorKind {
	var e *ExtractionError
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classifyOpenError maps reader failures to a kind
func classifyOpenError(path string, err error) *ExtractionError {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, pdf.ErrInvalidPassword) || strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return newError(KindEncrypted, path, "PDF is password protected. Please provide an unprotected PDF", err)
	}
	return newError(KindCorrupted, path, "failed to open PDF", err)
}
