package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/a3tai/dualmind/internal/cleanup"
	"github.com/a3tai/dualmind/internal/pdf"
	"github.com/a3tai/dualmind/internal/store"
	"github.com/a3tai/dualmind/internal/task"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	maxListedFiles  = 10
	maxListedTasks  = 10
)

func formatSearchResult(result *pdf.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&b, "Search query: %s\n", result.SearchQuery)
	}
	b.WriteString("\nFiles:\n")

	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %s\n", humanize.Bytes(uint64(file.Size)))
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func formatFileInfo(info *pdf.FileInfo) string {
	var b strings.Builder
	b.WriteString("PDF File Information\n")
	fmt.Fprintf(&b, "File: %s\n", info.Name)
	fmt.Fprintf(&b, "Path: %s\n", info.Path)
	fmt.Fprintf(&b, "Size: %s (%d bytes, %.2f MB)\n", info.HumanSize, info.Size, info.SizeMB)
	if info.Pages > 0 {
		fmt.Fprintf(&b, "Pages: %d\n", info.Pages)
	} else {
		b.WriteString("Pages: unknown\n")
	}
	fmt.Fprintf(&b, "Modified: %s\n", info.Modified)
	if info.Encrypted {
		b.WriteString("Encrypted: yes\n")
	}

	fields := []struct{ label, value string }{
		{"Title", info.Title},
		{"Author", info.Author},
		{"Subject", info.Subject},
		{"Producer", info.Producer},
		{"Created", info.CreatedDate},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
		}
	}

	return b.String()
}

func formatSnapshot(snap task.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task %s (%s)\n", snap.ID, snap.Kind)
	fmt.Fprintf(&b, "Status: %s\n", snap.Status)
	fmt.Fprintf(&b, "Progress: %d%%", snap.Percent)
	if snap.Message != "" {
		fmt.Fprintf(&b, " - %s", snap.Message)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Submitted: %s\n", snap.SubmittedAt.Format(timestampLayout))
	if !snap.FinishedAt.IsZero() && !snap.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Duration: %s\n", snap.FinishedAt.Sub(snap.StartedAt).Round(time.Millisecond))
	}

	if len(snap.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, step := range snap.Steps {
			fmt.Fprintf(&b, "  [%3d%%] %s %s\n", step.Percent, step.At.Format("15:04:05"), step.Message)
		}
	}

	switch snap.Status {
	case task.StatusCompleted:
		b.WriteString("\nResult:\n")
		b.WriteString(snap.Result)
	case task.StatusFailed, task.StatusCanceled:
		fmt.Fprintf(&b, "\nError: %s\n", snap.Error)
	}

	return b.String()
}

func formatHistory(reports []*store.Report) string {
	if len(reports) == 0 {
		return "No reports recorded yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📚 Report History (%d)\n\n", len(reports))
	for i, r := range reports {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, r.Kind, r.Title)
		fmt.Fprintf(&b, "   ID: %s\n", r.ID)
		fmt.Fprintf(&b, "   Source: %s\n", r.Source)
		fmt.Fprintf(&b, "   Words: %s", humanize.Comma(int64(r.WordCount)))
		if r.DocumentType != "" {
			fmt.Fprintf(&b, " | Type: %s", r.DocumentType)
		}
		if r.Complexity != "" {
			fmt.Fprintf(&b, " | Complexity: %s", r.Complexity)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Created: %s (%s)\n", r.CreatedAt.Format(timestampLayout), humanize.Time(r.CreatedAt))
		if i < len(reports)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

type statusReport struct {
	ServerName       string
	Version          string
	Directory        string
	MaxFileSize      int64
	OutputDir        string
	Transcription    bool
	Library          *pdf.LibraryScan
	Tasks            []task.Snapshot
	HistoryPath      string
	LastReport       *store.Report
	TempUsage        *cleanup.Usage
	TempAccumulating bool
}

func (s statusReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s v%s - Server Status\n", s.ServerName, s.Version)
	fmt.Fprintf(&b, "📁 Document Directory: %s\n", s.Directory)
	fmt.Fprintf(&b, "📏 Max File Size: %s\n", humanize.IBytes(uint64(s.MaxFileSize)))
	if s.OutputDir != "" {
		fmt.Fprintf(&b, "💾 Export Directory: %s\n", s.OutputDir)
	}
	if s.Transcription {
		b.WriteString("🎬 YouTube Transcription: configured\n")
	} else {
		b.WriteString("🎬 YouTube Transcription: not configured (set --whisper-model)\n")
	}
	b.WriteString("\n")

	s.writeLibrary(&b)
	s.writeTasks(&b)

	if s.HistoryPath != "" {
		fmt.Fprintf(&b, "📚 History: %s\n", s.HistoryPath)
		if s.LastReport != nil {
			fmt.Fprintf(&b, "   Last report: %s (%s)\n", s.LastReport.Title, humanize.Time(s.LastReport.CreatedAt))
		}
	} else {
		b.WriteString("📚 History: disabled\n")
	}

	if s.TempUsage != nil {
		fmt.Fprintf(&b, "🧹 Temporary files: %s\n", s.TempUsage.String())
		if s.TempAccumulating {
			b.WriteString("   ⚠️  Temporary files are accumulating\n")
		}
	}

	return b.String()
}

func (s statusReport) writeLibrary(b *strings.Builder) {
	lib := s.Library
	if lib == nil {
		b.WriteString("📂 Library: unavailable\n\n")
		return
	}
	if len(lib.Files) == 0 {
		b.WriteString("📂 Library: No PDF files found in the document directory\n\n")
		return
	}

	fmt.Fprintf(b, "📂 Library (%d PDF files, %s", len(lib.Files), humanize.Bytes(uint64(lib.TotalBytes)))
	if lib.FromCache {
		fmt.Fprintf(b, ", cached %s ago", lib.CacheAge.Round(time.Second))
	}
	if lib.Truncated {
		b.WriteString(", partial scan")
	}
	b.WriteString("):\n")

	for i, file := range lib.Files {
		if i >= maxListedFiles {
			fmt.Fprintf(b, "   ... and %d more files\n", len(lib.Files)-maxListedFiles)
			break
		}
		fmt.Fprintf(b, "   %d. %s (%s)\n", i+1, file.Name, humanize.Bytes(uint64(file.Size)))
	}
	b.WriteString("\n")
}

func (s statusReport) writeTasks(b *strings.Builder) {
	if len(s.Tasks) == 0 {
		b.WriteString("⚙️  Tasks: none\n\n")
		return
	}

	fmt.Fprintf(b, "⚙️  Tasks (%d):\n", len(s.Tasks))
	for i, snap := range s.Tasks {
		if i >= maxListedTasks {
			fmt.Fprintf(b, "   ... and %d more tasks\n", len(s.Tasks)-maxListedTasks)
			break
		}
		fmt.Fprintf(b, "   • %s [%s] %s %d%%", snap.ID, snap.Kind, snap.Status, snap.Percent)
		if snap.Message != "" {
			fmt.Fprintf(b, " - %s", snap.Message)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
