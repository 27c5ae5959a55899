package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Summarization Tools
	PDFSummarizeFileDescription = `Summarize a PDF document into main points, insights, action items and key terms.

**When to use:** You need a quick, structured overview of a PDF without reading it end to end.

**Why it's useful:** Runs fully offline with deterministic extractive analysis. The report lists the most important sentences, classifies the document type and complexity, and estimates reading time.

**Examples:**
• Research triage: "Summarize research/attention.pdf and list its key findings"
• Meeting prep: "Give me the action items from board-minutes.pdf"
• Reading plan: "How long would quarterly-report.pdf take to read?"

**Common workflows:**
1. Discovery: pdf_search_directory → pdf_summarize_file → report_export
2. Triage: pdf_validate_file → pdf_summarize_file → history_list

**Best practices:** Paths are resolved relative to the configured document directory. Scanned PDFs without a text layer report an empty document.`

	TextSummarizeDescription = `Summarize raw text with the same analysis used for PDFs.

**When to use:** The content is already text: pasted notes, an email thread, an article body.

**Why it's useful:** No file needed. The result is recorded in history and can be exported later.

**Examples:**
• Notes: "Summarize these meeting notes and pull out the action items"
• Articles: "What are the main points of this article text?"

**Best practices:** Pass a title so the report is easy to find in history_list.`

	YouTubeTranscribeDescription = `Transcribe a YouTube video locally and optionally summarize the transcript.

**When to use:** You want the spoken content of a video as text, or a summary of a talk or lecture.

**Why it's useful:** Audio is downloaded with yt-dlp and transcribed with whisper.cpp on this machine. Temporary audio is always removed.

**Examples:**
• Lecture notes: "Transcribe https://youtu.be/<id> and summarize it"
• Quotes: "Get the transcript of this conference talk"

**Common workflows:**
1. youtube_transcribe (summarize=true) → report_export
2. youtube_transcribe → text_summarize on a selected excerpt

**Best practices:** Transcription takes minutes for long videos. Use task_status with the returned task id to follow progress.`

	// Validation and Metadata Tools
	PDFValidateFileDescription = `Verify a PDF is readable before summarizing it.

**When to use:** Before processing unknown or user supplied files.

**Why it's useful:** Catches missing files, wrong extensions, oversized files and structurally broken PDFs early with a clear reason.

**Examples:**
• Upload check: "Is contract.pdf a valid PDF?"
• Batch safety: "Validate every file found by pdf_search_directory"

**Best practices:** Run this first in automated workflows.`

	PDFInfoDescription = `Get file and document properties of a PDF.

**When to use:** You need size, page count, modification time or document metadata.

**Why it's useful:** Helps estimate processing time and catalog documents.

**Examples:**
• Planning: "How many pages does manual.pdf have?"
• Cataloging: "Show the author and title of paper.pdf"`

	// Search and Discovery Tools
	PDFSearchDirectoryDescription = `Find PDF files in the document directory by name.

**When to use:** You know part of a file name or want an inventory of available PDFs.

**Why it's useful:** Matches case-insensitively on the whole name or on individual words, and never leaves the configured directory.

**Examples:**
• "Find PDFs with 'invoice' in the name"
• "List every PDF in the reports folder"

**Best practices:** Leave directory empty to search the configured document directory.`

	// Task and History Tools
	TaskStatusDescription = `Check the progress of a summarization or transcription task.

**When to use:** A long running request (usually youtube_transcribe) is still working, or you want the result of an earlier task.

**Why it's useful:** Shows status, percent complete, the latest steps and the result once finished. Finished tasks are kept for five minutes.`

	HistoryListDescription = `List recently generated reports, newest first.

**When to use:** Find an earlier summary or transcript without recomputing it.

**Best practices:** Use history_get with an id from this list to read the full report.`

	HistoryGetDescription = `Read a stored report by id.

**When to use:** You have an id from history_list and want the full report text.`

	ReportExportDescription = `Export a stored report to a text or Word (.docx) file.

**When to use:** You want to keep or share a report outside the conversation.

**Examples:**
• "Export the last summary as a Word document"
• "Save report <id> as board-notes.txt"

**Best practices:** Files are written to the configured output directory. Without a file name one is generated from the report title and the current time.`

	// Utility Tools
	ServerStatusDescription = `Get server status: configuration, library overview, running tasks and temporary storage.

**When to use:** Starting a session, troubleshooting, or checking whether transcription tools are configured.

**Why it's useful:** One call shows the document directory contents, queued and running tasks, history state and temp file usage.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"pdf_summarize_file":   PDFSummarizeFileDescription,
	"text_summarize":       TextSummarizeDescription,
	"youtube_transcribe":   YouTubeTranscribeDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_info":             PDFInfoDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"task_status":          TaskStatusDescription,
	"history_list":         HistoryListDescription,
	"history_get":          HistoryGetDescription,
	"report_export":        ReportExportDescription,
	"server_status":        ServerStatusDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every tool name in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
