package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/shipping-bill-reader/internal/config"
	"github.com/a3tai/shipping-bill-reader/internal/export"
	"github.com/a3tai/shipping-bill-reader/internal/extract"
	"github.com/a3tai/shipping-bill-reader/internal/pdf"
	"github.com/a3tai/shipping-bill-reader/internal/processor"
)

// Tool names
const (
	ToolExtractFile      = "shipping_bill_extract_file"
	ToolExtractDirectory = "shipping_bill_extract_directory"
	ToolExport           = "shipping_bill_export"
	ToolSearchDirectory  = "shipping_bill_search_directory"
	ToolValidateFile     = "shipping_bill_validate_file"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	processor *processor.Processor
	exporter  *export.Service
	validator *pdf.Validator
	reader    *pdf.Reader
	paths     *PathValidator
	mcpServer *server.MCPServer
	tools     []string
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, proc *processor.Processor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if proc == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := NewPathValidator(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		processor: proc,
		exporter:  export.NewService(cfg.OutputDir, cfg.OutputPrefix, logger),
		validator: pdf.NewValidator(cfg.MaxFileSize),
		reader:    pdf.NewReader(logger),
		paths:     paths,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// Tools returns the names of the registered tools in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(
		ToolExtractFile,
		mcp.WithDescription("Extract the shipping-bill table rows from one PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the input directory"),
		),
	), s.handleExtractFile)

	s.addTool(mcp.NewTool(
		ToolExtractDirectory,
		mcp.WithDescription("Extract and concatenate the table rows of every PDF in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the input directory if empty)"),
		),
	), s.handleExtractDirectory)

	s.addTool(mcp.NewTool(
		ToolExport,
		mcp.WithDescription("Process a directory and write the table to CSV and/or XLSX files in the output directory"),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the input directory if empty)"),
		),
		mcp.WithArray("formats",
			mcp.Description("Output formats: csv, xlsx (uses the configured formats if empty)"),
			mcp.Items(map[string]any{"type": "string", "enum": []string{"csv", "xlsx"}}),
		),
	), s.handleExport)

	s.addTool(mcp.NewTool(
		ToolSearchDirectory,
		mcp.WithDescription("List the PDF files a directory extraction would process"),
		mcp.WithString("directory",
			mcp.Description("Directory to list (uses the input directory if empty)"),
		),
	), s.handleSearchDirectory)

	s.addTool(mcp.NewTool(
		ToolValidateFile,
		mcp.WithDescription("Check that a file is a readable PDF and report its page count"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the input directory"),
		),
	), s.handleValidateFile)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.processor.ProcessFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := formatDocumentResult(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	directory, err := s.directoryArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	batch, err := s.processor.ProcessDirectory(ctx, directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := formatBatchSummary(batch)
	rows, err := formatRows(batch.Table)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(text + "\nRows (CSV):\n" + rows), nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := s.directoryArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names := request.GetStringSlice("formats", nil)
	if len(names) == 0 {
		names = s.config.Formats
	}
	formats, err := export.ParseFormats(names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	batch, err := s.processor.ProcessDirectory(ctx, directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	paths, err := s.exporter.Export(batch.Table, formats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := formatBatchSummary(batch)
	text += "\nFiles written:\n"
	for _, path := range paths {
		text += fmt.Sprintf("  %s\n", path)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	directory, err := s.directoryArgument(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := s.processor.ListPDFs(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	return mcp.NewToolResultText(formatFileList(directory, files)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path, err = s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := s.validator.Inspect(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", path, err)), nil
	}

	text := fmt.Sprintf("PDF file %s is valid and readable\n", info.Path)
	text += fmt.Sprintf("Pages: %d\n", info.Pages)
	text += fmt.Sprintf("Encrypted: %t\n", info.Encrypted)

	// Metadata is informational; a document pdfcpu accepts may still defeat the text reader.
	if meta, err := s.reader.ReadMetadata(path); err == nil {
		text += formatMetadata(meta)
	}
	return mcp.NewToolResultText(text), nil
}

// directoryArgument resolves the optional directory argument against the input directory
func (s *Server) directoryArgument(request mcp.CallToolRequest) (string, error) {
	return s.paths.Resolve(request.GetString("directory", ""))
}

// Formatting methods
func formatDocumentResult(result *processor.DocumentResult) (string, error) {
	c := result.Common

	text := fmt.Sprintf("Extracted shipping bill: %s\n", result.Path)
	text += fmt.Sprintf("Strategy: %s\n", result.Strategy)
	text += fmt.Sprintf("Items: %d\n", len(result.Items))
	text += "\nCommon fields:\n"
	text += fmt.Sprintf("  SB Date: %s\n", c.SBDate)
	text += fmt.Sprintf("  SB NO: %s\n", c.SBNo)
	text += fmt.Sprintf("  Consignee Name: %s\n", c.ConsigneeName)
	text += fmt.Sprintf("  Inv No: %s\n", c.InvNo)
	text += fmt.Sprintf("  Currency: %s\n", c.Currency)
	text += fmt.Sprintf("  Exchange Rate: %s\n", c.ExchangeRate)

	rows, err := formatRows(result.Rows)
	if err != nil {
		return "", err
	}
	return text + "\nRows (CSV):\n" + rows, nil
}

func formatBatchSummary(batch *processor.BatchResult) string {
	text := fmt.Sprintf("Processed %d of %d PDF file(s) in directory: %s\n",
		batch.FilesProcessed(), len(batch.Files), batch.Directory)
	text += fmt.Sprintf("Run ID: %s\n", batch.RunID)
	text += fmt.Sprintf("Rows extracted: %d\n", len(batch.Table))

	if len(batch.Failures) > 0 {
		text += fmt.Sprintf("\nFailures (%d):\n", len(batch.Failures))
		for i, failure := range batch.Failures {
			text += fmt.Sprintf("%d. %s\n   Reason: %s\n", i+1, failure.Name, failure.Reason)
		}
	}

	return text
}

func formatRows(table extract.Table) (string, error) {
	var sb strings.Builder
	if err := export.WriteCSV(&sb, table); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatFileList(directory string, files []pdf.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", len(files), directory)
	text += "\nFiles:\n"

	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(files)-1 {
			text += "\n"
		}
	}

	stats := pdf.SummarizeFiles(files)
	text += "\nSummary:\n"
	text += fmt.Sprintf("  Total size: %d bytes\n", stats.TotalSize)
	text += fmt.Sprintf("  Average size: %d bytes\n", stats.AverageFileSize)
	text += fmt.Sprintf("  Largest: %s (%d bytes)\n", stats.LargestFileName, stats.LargestFileSize)
	text += fmt.Sprintf("  Smallest: %s (%d bytes)\n", stats.SmallestFileName, stats.SmallestFileSize)

	return text
}

func formatMetadata(meta *pdf.Metadata) string {
	var text string
	fields := []struct{ label, value string }{
		{"Title", meta.Title},
		{"Author", meta.Author},
		{"Subject", meta.Subject},
		{"Producer", meta.Producer},
		{"Created", meta.CreatedDate},
	}
	for _, f := range fields {
		if f.value != "" {
			text += fmt.Sprintf("%s: %s\n", f.label, f.value)
		}
	}
	return text
}

// Run serves MCP over standard input and output until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting shipping-bill MCP server in stdio mode",
		"input_dir", s.config.InputDir,
		"output_dir", s.config.OutputDir)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
