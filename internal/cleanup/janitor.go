// Package cleanup removes stale temporary files left behind by transcription.
package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	// DefaultInterval is the time between periodic sweeps
	DefaultInterval = 30 * time.Second
	// Files younger than this are left alone by periodic sweeps.
	minFileAge = 30 * time.Second

	accumulatingBytes = 50 * 1024 * 1024
	accumulatingFiles = 20
)

// DefaultPatterns match the temporary files this application creates.
// yt-dlp leftovers such as dualmind_audio_<id>.wav.part carry the same prefix.
var DefaultPatterns = []string{"dualmind_*"}

// Usage describes the temporary files currently on disk
type Usage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// String renders usage for status output
func (u Usage) String() string {
	return humanize.Comma(int64(u.Files)) + " files, " + humanize.IBytes(uint64(u.Bytes))
}

// Result reports what a sweep removed
type Result struct {
	Removed    int   `json:"removed"`
	BytesFreed int64 `json:"bytes_freed"`
}

// Janitor periodically sweeps a temp directory
type Janitor struct {
	dir      string
	patterns []string
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	files prometheus.Gauge
	bytes prometheus.Gauge

	mu sync.Mutex
}

// New creates a janitor for dir. A nil registerer disables metrics.
func New(dir string, interval time.Duration, logger *zap.Logger, reg prometheus.Registerer) *Janitor {
	if dir == "" {
		dir = os.TempDir()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &Janitor{
		dir:      dir,
		patterns: DefaultPatterns,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}

	if reg != nil {
		factory := promauto.With(reg)
		j.files = factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "dualmind",
			Name:      "temp_files",
			Help:      "Temporary files currently on disk",
		})
		j.bytes = factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "dualmind",
			Name:      "temp_bytes",
			Help:      "Bytes used by temporary files currently on disk",
		})
	}

	return j
}

// Run sweeps on every tick until ctx is done
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("temp janitor started",
		zap.String("dir", j.dir),
		zap.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("temp janitor stopped")
			return
		case <-ticker.C:
			if res := j.Sweep(); res.Removed > 0 {
				j.logger.Info("removed stale temp files",
					zap.Int("files", res.Removed),
					zap.String("freed", humanize.IBytes(uint64(res.BytesFreed))))
			}
		}
	}
}

// Sweep removes matching files older than the minimum age
func (j *Janitor) Sweep() Result {
	return j.sweep(minFileAge)
}

// SweepNow removes every matching file regardless of age
func (j *Janitor) SweepNow() Result {
	return j.sweep(0)
}

// Usage counts the matching files and their total size
func (j *Janitor) Usage() Usage {
	var u Usage
	for _, path := range j.matches() {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		u.Files++
		u.Bytes += info.Size()
	}
	j.record(u)
	return u
}

// Accumulating reports whether temporary files are piling up
func (j *Janitor) Accumulating() bool {
	u := j.Usage()
	return u.Bytes > accumulatingBytes || u.Files > accumulatingFiles
}

func (j *Janitor) sweep(minAge time.Duration) Result {
	j.mu.Lock()
	defer j.mu.Unlock()

	var res Result
	now := j.now()
	for _, path := range j.matches() {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if minAge > 0 && now.Sub(info.ModTime()) <= minAge {
			continue
		}
		if err := os.Remove(path); err != nil {
			j.logger.Debug("could not remove temp file", zap.String("path", path), zap.Error(err))
			continue
		}
		res.Removed++
		res.BytesFreed += info.Size()
	}

	j.Usage()
	return res
}

// matches returns the unique paths matching any pattern
func (j *Janitor) matches() []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range j.patterns {
		found, err := filepath.Glob(filepath.Join(j.dir, pattern))
		if err != nil {
			continue
		}
		for _, p := range found {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
	}
	return paths
}

func (j *Janitor) record(u Usage) {
	if j.files == nil {
		return
	}
	j.files.Set(float64(u.Files))
	j.bytes.Set(float64(u.Bytes))
}
