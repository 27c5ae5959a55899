package export

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const maxFilenameLength = 100

var underscoreRuns = regexp.MustCompile(`_+`)

// CleanFilename replaces characters that are invalid in file names,
// collapses underscores and keeps the name within 100 characters
func CleanFilename(name string) string {
	for _, c := range `<>:"/\|?*` {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	name = strings.Trim(underscoreRuns.ReplaceAllString(name, "_"), "_")

	if len([]rune(name)) > maxFilenameLength {
		ext := filepath.Ext(name)
		stem := []rune(strings.TrimSuffix(name, ext))
		if len(stem) > maxFilenameLength-4 {
			stem = stem[:maxFilenameLength-4]
		}
		name = string(stem) + ext
	}
	return name
}

// ExportFilename builds DualMind_<base>_<YYYYMMDD_HHMMSS><ext>
func ExportFilename(base, ext string, now time.Time) string {
	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := strings.ReplaceAll(b.String(), " ", "_")
	return "DualMind_" + clean + "_" + now.Format("20060102_150405") + ext
}
