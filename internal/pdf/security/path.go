// Package security keeps file access inside the configured document directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the configured directory
var ErrOutsideDirectory = errors.New("path is outside configured directory")

// PathValidator provides security validation for file paths
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a new path validator for the given directory.
// The directory does not need to exist yet.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{configuredDirectory: configuredDirectory}, nil
}

// GetConfiguredDirectory returns the configured directory path
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// ValidatePath checks if a path is within the configured directory
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	within, err := v.IsPathWithinDirectory(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}
	return nil
}

// IsPathWithinDirectory reports whether path, and its symlink target if
// any, resolve inside the configured directory. Every path is accepted
// while the directory does not exist.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	if !v.directoryExists() {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p string) bool {
		return under(p, cleanDir) || under(p, realDir)
	}
	return inside(cleanPath) && inside(realPath), nil
}

// NormalizePath returns an absolute path, joining relative paths onto
// the configured directory, and validates it
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ValidateDirectory checks that dirPath is inside the configured directory
// and, when it exists, that it is a directory
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}

	info, err := os.Stat(dirPath)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}

// SanitizePath strips NUL bytes and normalizes the path
func (v *PathValidator) SanitizePath(path string) (string, error) {
	return v.NormalizePath(strings.ReplaceAll(path, "\x00", ""))
}

func (v *PathValidator) directoryExists() bool {
	_, err := os.Stat(v.configuredDirectory)
	return !os.IsNotExist(err)
}

func under(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
