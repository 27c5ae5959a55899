package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SearchResult lists PDF files found under a directory
type SearchResult struct {
	Directory   string      `json:"directory"`
	SearchQuery string      `json:"search_query,omitempty"`
	Files       []FileEntry `json:"files"`
	TotalCount  int         `json:"total_count"`
}

// FileEntry is one PDF found by a directory search
type FileEntry struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Search handles PDF discovery operations
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{validator: NewValidator(maxFileSize)}
}

// SearchDirectory walks directory for PDF files whose names match query.
// Hidden directories, unreadable entries and files failing size checks are skipped.
func (s *Search) SearchDirectory(directory, query string) (*SearchResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	if info, err := os.Stat(absDirectory); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var files []FileEntry

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Continue walking past unreadable entries
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 || !isPDFFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil || s.validator.ValidateFileInfo(path, info) != nil {
			return nil //nolint:nilerr // Skip invalid files
		}

		if !matchesQuery(d.Name(), query) {
			return nil
		}

		files = append(files, FileEntry{
			Path:         path,
			Name:         d.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &SearchResult{
		Directory:   absDirectory,
		SearchQuery: query,
		Files:       files,
		TotalCount:  len(files),
	}, nil
}

func isPDFFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// matchesQuery requires every query word to appear in some filename word
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitWords(name)
	for _, q := range splitWords(query) {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
