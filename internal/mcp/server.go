package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/api"
	"github.com/a3tai/schedify/internal/config"
	"github.com/a3tai/schedify/internal/descriptions"
	"github.com/a3tai/schedify/internal/export"
	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/pdf"
	"github.com/a3tai/schedify/internal/schedule"
)

const shutdownTimeout = 10 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     logrus.FieldLogger

	stdin  io.Reader
	stdout io.Writer
	ready  chan net.Addr // receives the listen address in server mode
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logging.OrDiscard(logger),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}

	s.registerTools()

	return s, nil
}

func pathArg() mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
	)
}

func refreshArg() mcp.ToolOption {
	return mcp.WithBoolean("refresh",
		mcp.Description("Ignore and replace any cached result for this document"),
	)
}

func fileRequest(request mcp.CallToolRequest) (pdf.ScheduleFileRequest, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return pdf.ScheduleFileRequest{}, err
	}
	return pdf.ScheduleFileRequest{
		Path:    path,
		Refresh: request.GetBool("refresh", false),
	}, nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("schedule_parse_file",
		mcp.WithDescription(descriptions.ScheduleParseFileDescription),
		pathArg(),
		refreshArg(),
	), s.handleScheduleParseFile)

	s.mcpServer.AddTool(mcp.NewTool("schedule_parse_text",
		mcp.WithDescription(descriptions.ScheduleParseTextDescription),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text of the registration document"),
		),
	), s.handleScheduleParseText)

	s.mcpServer.AddTool(mcp.NewTool("schedule_export_xlsx",
		mcp.WithDescription(descriptions.ScheduleExportXLSXDescription),
		pathArg(),
		refreshArg(),
		mcp.WithString("name",
			mcp.Description("Base name of the workbook (defaults to the PDF file name)"),
		),
	), s.handleScheduleExportXLSX)

	s.mcpServer.AddTool(mcp.NewTool("pdf_read_text",
		mcp.WithDescription(descriptions.PDFReadTextDescription),
		pathArg(),
	), s.handlePDFReadText)

	s.mcpServer.AddTool(mcp.NewTool("pdf_validate_file",
		mcp.WithDescription(descriptions.PDFValidateFileDescription),
		pathArg(),
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(mcp.NewTool("pdf_inspect_file",
		mcp.WithDescription(descriptions.PDFInspectFileDescription),
		pathArg(),
	), s.handlePDFInspectFile)

	s.mcpServer.AddTool(mcp.NewTool("pdf_search_directory",
		mcp.WithDescription(descriptions.PDFSearchDirectoryDescription),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	), s.handlePDFSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool("server_info",
		mcp.WithDescription(descriptions.ServerInfoDescription),
	), s.handleServerInfo)
}

// toolError logs the failure and returns it as a tool result
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.WithField("tool", tool).WithError(err).Warn("tool call failed")
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) handleScheduleParseFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := fileRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractSchedule(ctx, req)
	if err != nil {
		return s.toolError("schedule_parse_file", err), nil
	}

	text, err := formatScheduleResult(result)
	if err != nil {
		return s.toolError("schedule_parse_file", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleScheduleParseText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ParseText(text)
	if err != nil {
		return s.toolError("schedule_parse_text", err), nil
	}

	out, err := formatScheduleResult(result)
	if err != nil {
		return s.toolError("schedule_parse_text", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleScheduleExportXLSX(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := fileRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractSchedule(ctx, req)
	if err != nil {
		return s.toolError("schedule_export_xlsx", err), nil
	}

	name := filepath.Base(result.Path)
	if n, ok := request.GetArguments()["name"].(string); ok && n != "" {
		name = n
	}

	out, err := export.SaveXLSX(result.Schedule, s.exportDirectory(), name)
	if err != nil {
		return s.toolError("schedule_export_xlsx", err), nil
	}

	text := fmt.Sprintf("Saved workbook: %s\n", out)
	text += fmt.Sprintf("Courses: %d\n", len(result.Schedule.Courses))
	text += fmt.Sprintf("Meetings: %d\n", result.Schedule.MeetingCount())
	if !result.Report.Complete() {
		text += incompleteWarning(result.Report.FailedPages)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) exportDirectory() string {
	if s.config.ExportDirectory != "" {
		return s.config.ExportDirectory
	}
	return filepath.Join(s.pdfService.Directory(), config.DefaultExportDirName)
}

func (s *Server) handlePDFReadText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ReadText(ctx, pdf.ReadTextRequest{Path: path})
	if err != nil {
		return s.toolError("pdf_read_text", err), nil
	}

	text := fmt.Sprintf("Successfully read PDF: %s\n", result.Path)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	if len(result.FailedPages) > 0 {
		text += fmt.Sprintf("Unreadable pages: %s\n", pageList(result.FailedPages))
	}
	for i, page := range result.PageTexts {
		text += fmt.Sprintf("\n--- Page %d ---\n%s\n", i+1, page)
	}
	text += "\nNormalized text:\n" + result.Text

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return s.toolError("pdf_validate_file", err), nil
	}

	var text string
	if result.Valid {
		text = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		text = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePDFInspectFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.InspectFile(pdf.InspectFileRequest{Path: path})
	if err != nil {
		return s.toolError("pdf_inspect_file", err), nil
	}
	return mcp.NewToolResultText(formatInspectFileResult(result)), nil
}

func (s *Server) handlePDFSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	req := pdf.SearchDirectoryRequest{}
	if dir, ok := args["directory"].(string); ok {
		req.Directory = dir
	}
	if q, ok := args["query"].(string); ok {
		req.Query = q
	}

	result, err := s.pdfService.SearchDirectory(req)
	if err != nil {
		return s.toolError("pdf_search_directory", err), nil
	}

	var text string
	if result.TotalCount == 0 {
		text = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		text = formatSearchDirectoryResult(result)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(ctx, s.config.ServerName, s.config.Version)
	if err != nil {
		return s.toolError("server_info", err), nil
	}
	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

// formatScheduleResult renders the course summary followed by the schedule JSON
func formatScheduleResult(result *pdf.ScheduleResult) (string, error) {
	data, err := json.MarshalIndent(result.Schedule, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule: %w", err)
	}

	text := schedule.Summary(result.Schedule)
	text += fmt.Sprintf("\nParse ID: %s", result.ParseID)
	if result.Cached {
		text += " (cached)"
	}
	text += "\n"
	if !result.Report.Complete() {
		text += incompleteWarning(result.Report.FailedPages)
	}
	if result.Report != nil && len(result.Report.SkippedRows) > 0 {
		text += fmt.Sprintf("Skipped rows: %d\n", len(result.Report.SkippedRows))
		for _, row := range result.Report.SkippedRows {
			text += fmt.Sprintf("  #%d %s: %s\n", row.Index, row.Reason, row.Text)
		}
	}
	text += "\nJSON:\n" + string(data)
	return text, nil
}

func incompleteWarning(pages []int) string {
	return fmt.Sprintf("INCOMPLETE: text of page(s) %s could not be read; courses on them are missing\n", pageList(pages))
}

func pageList(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

func formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func formatInspectFileResult(result *pdf.InspectFileResult) string {
	text := "PDF File Details\n"
	text += fmt.Sprintf("File: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	if result.Version != "" {
		text += fmt.Sprintf("PDF version: %s\n", result.Version)
	}
	text += fmt.Sprintf("Encrypted: %t\n", result.Encrypted)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	if result.Title != "" {
		text += fmt.Sprintf("Title: %s\n", result.Title)
	}
	if result.Author != "" {
		text += fmt.Sprintf("Author: %s\n", result.Author)
	}
	if result.Producer != "" {
		text += fmt.Sprintf("Producer: %s\n", result.Producer)
	}
	if result.CreatedDate != "" {
		text += fmt.Sprintf("Created: %s\n", result.CreatedDate)
	}

	return text
}

func formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Result Cache: %s\n", enabled(result.CacheEnabled))
	if st := result.CacheStats; st != nil {
		text += fmt.Sprintf("Cache Lookups: %d memory hits, %d disk hits, %d misses (%d entries in memory)\n",
			st.MemoryHits, st.DiskHits, st.Misses, st.MemoryEntries)
	}
	text += "\n"

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance
	return text
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// Run starts the MCP server in the configured mode and returns when ctx is
// cancelled or the transport closes
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.WithField("dir", s.config.PDFDirectory).Debug("starting MCP server in stdio mode")

	err := server.NewStdioServer(s.mcpServer).Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the HTTP API with the MCP SSE transport mounted at
// /sse and /message
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := &http.Server{ReadHeaderTimeout: 10 * time.Second}
	sse := server.NewSSEServer(s.mcpServer, server.WithHTTPServer(httpServer))

	apiServer, err := api.NewServer(api.Config{
		Service:        s.pdfService,
		Logger:         s.logger,
		RequestTimeout: s.config.RequestTimeout,
		SSEHandler:     sse.SSEHandler(),
		MessageHandler: sse.MessageHandler(),
	})
	if err != nil {
		return fmt.Errorf("failed to build HTTP API: %w", err)
	}
	httpServer.Handler = apiServer.Router()

	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}

	s.logger.WithFields(logrus.Fields{
		"addr": ln.Addr().String(),
		"dir":  s.config.PDFDirectory,
	}).Info("HTTP server listening")
	if s.ready != nil {
		s.ready <- ln.Addr()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// closes open SSE sessions, then the HTTP server
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown failed: %w", err)
	}
	return nil
}
