package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/dualmind/internal/export"
	"github.com/a3tai/dualmind/internal/task"
)

var errHistoryDisabled = errors.New("report history is disabled; start the server with --history-db")

func stringArg(request mcp.CallToolRequest, key string) string {
	if v, ok := request.GetArguments()[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolArg(request mcp.CallToolRequest, key string) bool {
	switch v := request.GetArguments()[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func intArg(request mcp.CallToolRequest, key string) int {
	switch v := request.GetArguments()[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// awaitTask waits for h with the request context. When the client gives up
// first the task keeps running and can be followed with task_status.
func (s *Server) awaitTask(ctx context.Context, h *task.Handle) *mcp.CallToolResult {
	report, err := h.Await(ctx)
	if err == nil {
		return mcp.NewToolResultText(report)
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Task %s is still running. Use task_status with this id to follow it.", h.ID()))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) handlePDFSummarizeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h, err := s.pipeline.SubmitPDF(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.awaitTask(ctx, h), nil
}

func (s *Server) handleTextSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h, err := s.pipeline.SubmitText(stringArg(request, "title"), text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.awaitTask(ctx, h), nil
}

func (s *Server) handleYouTubeTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h, err := s.pipeline.SubmitYouTube(strings.TrimSpace(url), boolArg(request, "summarize"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.awaitTask(ctx, h), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.docs.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
		if result.Pages > 0 {
			responseText += fmt.Sprintf(" (%d pages)", result.Pages)
		}
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFInfo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.docs.Info(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFileInfo(info)), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory := stringArg(request, "directory")
	query := stringArg(request, "query")

	result, err := s.docs.SearchDirectory(directory, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		responseText := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	return mcp.NewToolResultText(formatSearchResult(result)), nil
}

func (s *Server) handleTaskStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h, err := s.runner.Lookup(strings.TrimSpace(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(h.Poll())), nil
}

func (s *Server) handleHistoryList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError(errHistoryDisabled.Error()), nil
	}

	reports, err := s.history.List(ctx, intArg(request, "limit"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(reports)), nil
}

func (s *Server) handleHistoryGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError(errHistoryDisabled.Error()), nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.history.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report.Body), nil
}

func (s *Server) handleReportExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError(errHistoryDisabled.Error()), nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	formatName, err := request.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.history.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err := s.pipeline.Export(report.Body, report.Title, format, stringArg(request, "filename"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Report %s exported to %s", report.ID, path)), nil
}

func (s *Server) handleServerStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := statusReport{
		ServerName:    s.config.ServerName,
		Version:       s.config.Version,
		Directory:     s.docs.Directory(),
		MaxFileSize:   s.config.MaxFileSize,
		OutputDir:     s.pipeline.OutputDir(),
		Transcription: s.config.WhisperModel != "",
		Tasks:         s.runner.List(),
	}

	library, err := s.docs.Library(ctx)
	if err != nil {
		s.logger.Sugar().Warnw("library scan failed", "error", err)
	} else {
		status.Library = library
	}

	if s.history != nil {
		status.HistoryPath = s.history.Path()
		if recent, err := s.history.List(ctx, 1); err == nil && len(recent) > 0 {
			status.LastReport = recent[0]
		}
	}

	if s.janitor != nil {
		usage := s.janitor.Usage()
		status.TempUsage = &usage
		status.TempAccumulating = s.janitor.Accumulating()
	}

	return mcp.NewToolResultText(status.String()), nil
}
