package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/a3tai/dualmind/internal/cleanup"
	"github.com/a3tai/dualmind/internal/config"
	"github.com/a3tai/dualmind/internal/descriptions"
	"github.com/a3tai/dualmind/internal/pdf"
	"github.com/a3tai/dualmind/internal/pipeline"
	"github.com/a3tai/dualmind/internal/store"
	"github.com/a3tai/dualmind/internal/task"
)

const shutdownTimeout = 5 * time.Second

// Deps are the services the tool handlers call into
type Deps struct {
	Documents *pdf.Service
	Pipeline  *pipeline.Pipeline
	Runner    *task.Runner

	// Optional
	History  *store.Store
	Janitor  *cleanup.Janitor
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	docs      *pdf.Service
	pipeline  *pipeline.Pipeline
	runner    *task.Runner
	history   *store.Store
	janitor   *cleanup.Janitor
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if deps.Documents == nil {
		return nil, errors.New("document service cannot be nil")
	}
	if deps.Pipeline == nil || deps.Runner == nil {
		return nil, errors.New("pipeline and runner cannot be nil")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		docs:      deps.Documents,
		pipeline:  deps.Pipeline,
		runner:    deps.Runner,
		history:   deps.History,
		janitor:   deps.Janitor,
		gatherer:  deps.Gatherer,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

func describe(name string) mcp.ToolOption {
	return mcp.WithDescription(descriptions.GetToolDescription(name))
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the document directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool("pdf_summarize_file",
		describe("pdf_summarize_file"),
		pathParam,
	), s.handlePDFSummarizeFile)

	s.mcpServer.AddTool(mcp.NewTool("text_summarize",
		describe("text_summarize"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to summarize"),
		),
		mcp.WithString("title",
			mcp.Description("Optional title used in the report and history"),
		),
	), s.handleTextSummarize)

	s.mcpServer.AddTool(mcp.NewTool("youtube_transcribe",
		describe("youtube_transcribe"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("YouTube video URL"),
		),
		mcp.WithBoolean("summarize",
			mcp.Description("Append a summary of the transcript (default false)"),
		),
	), s.handleYouTubeTranscribe)

	s.mcpServer.AddTool(mcp.NewTool("pdf_validate_file",
		describe("pdf_validate_file"),
		pathParam,
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool("pdf_info",
		describe("pdf_info"),
		pathParam,
	), s.handlePDFInfo)

	s.mcpServer.AddTool(mcp.NewTool("pdf_search_directory",
		describe("pdf_search_directory"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive file name query"),
		),
	), s.handlePDFSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool("task_status",
		describe("task_status"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id returned by a summarization or transcription tool"),
		),
	), s.handleTaskStatus)

	s.mcpServer.AddTool(mcp.NewTool("history_list",
		describe("history_list"),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of reports (default %d)", store.DefaultListLimit)),
		),
	), s.handleHistoryList)

	s.mcpServer.AddTool(mcp.NewTool("history_get",
		describe("history_get"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report id from history_list"),
		),
	), s.handleHistoryGet)

	s.mcpServer.AddTool(mcp.NewTool("report_export",
		describe("report_export"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report id from history_list"),
		),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Description("Export format: txt or docx"),
		),
		mcp.WithString("filename",
			mcp.Description("Optional file name; generated when empty"),
		),
	), s.handleReportExport)

	s.mcpServer.AddTool(mcp.NewTool("server_status",
		describe("server_status"),
	), s.handleServerStatus)
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves MCP over stdin/stdout until stdin closes
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", zap.String("directory", s.config.Directory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler for server mode: the SSE transport,
// plus /metrics when enabled
func (s *Server) Handler() http.Handler {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(s.config.PublicURL()))

	mux := http.NewServeMux()
	if s.config.Metrics && s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", sse)
	return mux
}

// runServerMode serves MCP over SSE until ctx is canceled
func (s *Server) runServerMode(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}
	return s.serve(ctx, listener)
}

func (s *Server) serve(ctx context.Context, listener net.Listener) error {
	// SSE streams end when ctx is canceled.
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("MCP SSE server listening",
			zap.String("address", listener.Addr().String()),
			zap.Bool("metrics", s.config.Metrics))
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
