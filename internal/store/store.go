// Package store keeps a SQLite history of generated reports.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/a3tai/dualmind/internal/intelligence"
)

// ErrNotFound is returned when no report has the requested id
var ErrNotFound = errors.New("report not found")

// DefaultListLimit is used when List is called without a positive limit
const DefaultListLimit = 20

// Kind identifies where a report came from
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindText    Kind = "text"
	KindYouTube Kind = "youtube"
)

// Report is one stored result
type Report struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Source       string    `json:"source"`
	Title        string    `json:"title"`
	WordCount    int       `json:"word_count"`
	DocumentType string    `json:"document_type,omitempty"`
	Complexity   string    `json:"complexity,omitempty"`
	Body         string    `json:"body,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReport builds a report record from a summarization outcome
func NewReport(kind Kind, title string, outcome *intelligence.Outcome) *Report {
	r := &Report{
		Kind:   kind,
		Source: outcome.Source,
		Title:  title,
		Body:   outcome.Report,
	}
	if s := outcome.Summary; s != nil {
		r.WordCount = s.WordCount
		r.DocumentType = string(s.DocumentType)
		r.Complexity = string(s.Complexity)
	}
	return r
}

// Store is a SQLite backed report history
type Store struct {
	db    *sql.DB
	path  string
	now   func() time.Time
	newID func() string
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers on the same file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{
		db:    db,
		path:  path,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Save inserts r, assigning an id and creation time when unset
func (s *Store) Save(ctx context.Context, r *Report) error {
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, kind, source, title, word_count, document_type, complexity, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Kind), r.Source, r.Title, r.WordCount, r.DocumentType, r.Complexity, r.Body,
		r.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get returns the report with the given id, including its body
func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source, title, word_count, document_type, complexity, body, created_at
		FROM reports WHERE id = ?`, id)

	r, err := scanReport(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

// List returns up to limit reports, newest first, without bodies
func (s *Store) List(ctx context.Context, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, source, title, word_count, document_type, complexity, created_at
		FROM reports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		r, err := scanReport(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Delete removes the report with the given id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner, withBody bool) (*Report, error) {
	var (
		r            Report
		kind         string
		title        sql.NullString
		documentType sql.NullString
		complexity   sql.NullString
		created      int64
	)

	dest := []any{&r.ID, &kind, &r.Source, &title, &r.WordCount, &documentType, &complexity}
	if withBody {
		dest = append(dest, &r.Body)
	}
	dest = append(dest, &created)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	r.Kind = Kind(kind)
	r.Title = title.String
	r.DocumentType = documentType.String
	r.Complexity = complexity.String
	r.CreatedAt = time.Unix(0, created)
	return &r, nil
}
