package pdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Library scan limits used for status reports
const (
	libraryCacheTTL   = 5 * time.Minute
	libraryMaxDepth   = 5
	libraryFileLimit  = 100
	libraryTimeBudget = 3 * time.Second
)

// LibraryScan is a bounded listing of the PDFs under a directory
type LibraryScan struct {
	Directory    string        `json:"directory"`
	Files        []FileEntry   `json:"files"`
	TotalBytes   int64         `json:"total_bytes"`
	FromCache    bool          `json:"from_cache"`
	CacheAge     time.Duration `json:"cache_age"`
	ScanTime     time.Duration `json:"scan_time"`
	FilesScanned int           `json:"files_scanned"`
	Truncated    bool          `json:"truncated"`
}

type cacheEntry struct {
	scan      *LibraryScan
	updatedAt time.Time
}

// DirectoryCache provides TTL-based caching for directory scans
type DirectoryCache struct {
	entries  map[string]cacheEntry
	scanning map[string]bool
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries:  make(map[string]cacheEntry),
		scanning: make(map[string]bool),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the cached scan if it is still fresh
func (c *DirectoryCache) Get(dir string) (*LibraryScan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[dir]
	if !ok {
		return nil, false
	}
	age := c.now().Sub(entry.updatedAt)
	if age > c.ttl {
		return nil, false
	}

	scan := *entry.scan
	scan.FromCache = true
	scan.CacheAge = age
	return &scan, true
}

// Set stores a scan result
func (c *DirectoryCache) Set(dir string, scan *LibraryScan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dir] = cacheEntry{scan: scan, updatedAt: c.now()}
}

// beginScan marks dir as being scanned; it returns false if a scan is already running
func (c *DirectoryCache) beginScan(dir string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanning[dir] {
		return false
	}
	c.scanning[dir] = true
	return true
}

func (c *DirectoryCache) endScan(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scanning, dir)
}

// Invalidate drops the cached scan for dir
func (c *DirectoryCache) Invalidate(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dir)
}

// LazyDirectoryScanner walks a directory tree within depth, count and time limits
type LazyDirectoryScanner struct {
	maxDepth  int
	fileLimit int
	timeLimit time.Duration
}

// NewLazyDirectoryScanner creates a new lazy directory scanner
func NewLazyDirectoryScanner(maxDepth, fileLimit int, timeLimit time.Duration) *LazyDirectoryScanner {
	return &LazyDirectoryScanner{
		maxDepth:  maxDepth,
		fileLimit: fileLimit,
		timeLimit: timeLimit,
	}
}

type scanState struct {
	started time.Time
	visited map[string]bool
	result  *LibraryScan
}

// ScanDirectory lists PDFs under root, skipping hidden entries and symlinks
func (s *LazyDirectoryScanner) ScanDirectory(ctx context.Context, root string) (*LibraryScan, error) {
	state := &scanState{
		started: time.Now(),
		visited: make(map[string]bool),
		result:  &LibraryScan{Directory: root, Files: []FileEntry{}},
	}

	err := s.scan(ctx, root, 0, state)
	state.result.ScanTime = time.Since(state.started)
	return state.result, err
}

func (s *LazyDirectoryScanner) scan(ctx context.Context, dir string, depth int, st *scanState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.maxDepth > 0 && depth >= s.maxDepth {
		return nil
	}
	if s.limitReached(st) {
		st.result.Truncated = true
		return nil
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil || st.visited[resolved] {
		return nil //nolint:nilerr // Unresolvable or already visited
	}
	st.visited[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil //nolint:nilerr // Skip unreadable directories
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		st.result.FilesScanned++
		if strings.HasPrefix(entry.Name(), ".") || entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := s.scan(ctx, path, depth+1, st); err != nil {
				return err
			}
			continue
		}

		if !isPDFFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		st.result.Files = append(st.result.Files, FileEntry{
			Path:         path,
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		st.result.TotalBytes += info.Size()

		if s.limitReached(st) {
			st.result.Truncated = true
			return nil
		}
	}
	return nil
}

func (s *LazyDirectoryScanner) limitReached(st *scanState) bool {
	if s.fileLimit > 0 && len(st.result.Files) >= s.fileLimit {
		return true
	}
	return s.timeLimit > 0 && time.Since(st.started) > s.timeLimit
}

// Library reports the PDFs available in the configured directory
type Library struct {
	cache   *DirectoryCache
	scanner *LazyDirectoryScanner
}

// NewLibrary creates a library view with the default cache and scan limits
func NewLibrary() *Library {
	return &Library{
		cache:   NewDirectoryCache(libraryCacheTTL),
		scanner: NewLazyDirectoryScanner(libraryMaxDepth, libraryFileLimit, libraryTimeBudget),
	}
}

// Scan returns the cached listing of dir or scans it. A caller arriving
// while another scan of dir is running gets an empty, uncached result.
func (l *Library) Scan(ctx context.Context, dir string) (*LibraryScan, error) {
	if scan, ok := l.cache.Get(dir); ok {
		return scan, nil
	}

	if !l.cache.beginScan(dir) {
		return &LibraryScan{Directory: dir, Files: []FileEntry{}}, nil
	}
	defer l.cache.endScan(dir)

	scan, err := l.scanner.ScanDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	l.cache.Set(dir, scan)
	return scan, nil
}

// Invalidate forgets the cached listing of dir
func (l *Library) Invalidate(dir string) {
	l.cache.Invalidate(dir)
}
