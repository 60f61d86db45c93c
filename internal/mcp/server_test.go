package mcp

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/shipping-bill-reader/internal/config"
	"github.com/a3tai/shipping-bill-reader/internal/pdf/pdftest"
	"github.com/a3tai/shipping-bill-reader/internal/processor"
)

func billLines(sbNo string, items ...string) []string {
	lines := []string{
		"SHIPPING BILL FOR EXPORT OF GOODS",
		"SB No " + sbNo + "   Date 12-JAN-2025",
		"CONSIGNEE NAME AND ADDRESS",
		"FLORA TRADING PTE LTD",
		"PART - II - INVOICE DETAILS",
		"1.INV NO JT-086/24-25",
		"4.CURRENCY",
		"SGD",
		"EXCHANGE RATE 1 SGD INR 60.8",
	}
	lines = append(lines, items...)
	return append(lines, "PART - III - ITEM DETAILS")
}

type fixture struct {
	server *Server
	input  string
	output string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "out")

	pdftest.WriteTextPDF(t, filepath.Join(input, "first.pdf"),
		billLines("1234567", "06039000 FRESH MIXED FLOWERS 632 KGS 3 1896"))
	pdftest.WriteTextPDF(t, filepath.Join(input, "second.pdf"),
		billLines("7654321",
			"06031100 RED ROSES LONG STEM 120 KGS 4 480",
			"06031200 CARNATIONS WHITE 50 KGS 2 100"))
	require.NoError(t, os.WriteFile(filepath.Join(input, "third.pdf"), []byte(strings.Repeat("broken ", 30)), 0o644))

	cfg := config.DefaultConfig()
	cfg.InputDir = input
	cfg.OutputDir = output
	cfg.Workers = 2

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, err := NewServer(cfg, processor.New(cfg.ProcessorOptions(), logger), logger)
	require.NoError(t, err)

	return fixture{server: server, input: input, output: output}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult returns the text of the first content item
func extractTextFromResult(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	switch content := result.Content[0].(type) {
	case mcp.TextContent:
		return content.Text
	case *mcp.TextContent:
		return content.Text
	default:
		t.Fatalf("unexpected content type %T", result.Content[0])
		return ""
	}
}

func TestNewServer(t *testing.T) {
	cfg := config.DefaultConfig()
	proc := processor.New(cfg.ProcessorOptions(), nil)

	_, err := NewServer(nil, proc, nil)
	assert.Error(t, err)

	_, err = NewServer(cfg, nil, nil)
	assert.Error(t, err)

	cfg.InputDir = ""
	_, err = NewServer(cfg, proc, nil)
	assert.Error(t, err)
}

func TestServer_Tools(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{
		ToolExtractFile,
		ToolExtractDirectory,
		ToolExport,
		ToolSearchDirectory,
		ToolValidateFile,
	}, f.server.Tools())
	assert.NotNil(t, f.server.mcpServer)
}

func TestHandleExtractFile(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleExtractFile(context.Background(), callRequest(map[string]any{"path": "first.pdf"}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(t, result))

	text := extractTextFromResult(t, result)
	assert.Contains(t, text, "Strategy: horizontal")
	assert.Contains(t, text, "SB NO: 1234567")
	assert.Contains(t, text, "Currency: SGD")
	assert.Contains(t, text, "SB Date,SB NO,Consignee Name,Inv No,Description,Qty,Rate,Total,Exchange Rate\n")
	assert.Contains(t, text, "12-JAN-2025,1234567,FLORA TRADING PTE LTD,JT-086/24-25,FRESH MIXED FLOWERS,632,SGD 3,1896,60.8\n")
}

func TestHandleExtractFile_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{}},
		{"outside input directory", map[string]any{"path": "/etc/passwd"}},
		{"parent traversal", map[string]any{"path": "../first.pdf"}},
		{"undecodable", map[string]any{"path": "third.pdf"}},
		{"missing file", map[string]any{"path": "missing.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.server.handleExtractFile(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestHandleExtractDirectory(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleExtractDirectory(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(t, result))

	text := extractTextFromResult(t, result)
	assert.Contains(t, text, "Processed 2 of 3 PDF file(s)")
	assert.Contains(t, text, "Rows extracted: 3")
	assert.Contains(t, text, "Failures (1):")
	assert.Contains(t, text, "third.pdf")

	first := strings.Index(text, "FRESH MIXED FLOWERS")
	second := strings.Index(text, "RED ROSES LONG STEM")
	third := strings.Index(text, "CARNATIONS WHITE")
	assert.True(t, first >= 0 && first < second && second < third)
}

func TestHandleExtractDirectory_NoPDFs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.input, "empty"), 0o755))

	result, err := f.server.handleExtractDirectory(context.Background(), callRequest(map[string]any{"directory": "empty"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(t, result), "no PDF files found")
}

func TestHandleExport(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleExport(context.Background(), callRequest(map[string]any{
		"formats": []any{"csv"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(t, result))

	entries, err := os.ReadDir(f.output)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "shipping_bill_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))

	text := extractTextFromResult(t, result)
	assert.Contains(t, text, "Files written:")
	assert.Contains(t, text, filepath.Join(f.output, entries[0].Name()))
}

func TestHandleExport_DefaultFormats(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleExport(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(t, result))

	entries, err := os.ReadDir(f.output)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHandleExport_BadFormat(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleExport(context.Background(), callRequest(map[string]any{
		"formats": []any{"json"},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	_, err = os.Stat(f.output)
	assert.True(t, os.IsNotExist(err))
}

func TestHandleSearchDirectory(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleSearchDirectory(context.Background(), callRequest(nil))
	require.NoError(t, err)

	text := extractTextFromResult(t, result)
	assert.Contains(t, text, "Found 3 PDF file(s)")
	assert.Contains(t, text, "1. first.pdf")
	assert.Contains(t, text, "3. third.pdf")
	assert.Contains(t, text, "Summary:")
	assert.Contains(t, text, "Smallest: third.pdf (210 bytes)")

	require.NoError(t, os.Mkdir(filepath.Join(f.input, "empty"), 0o755))
	result, err = f.server.handleSearchDirectory(context.Background(), callRequest(map[string]any{"directory": "empty"}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(t, result), "No PDF files found")
}

func TestHandleValidateFile(t *testing.T) {
	f := newFixture(t)

	result, err := f.server.handleValidateFile(context.Background(), callRequest(map[string]any{"path": "first.pdf"}))
	require.NoError(t, err)
	text := extractTextFromResult(t, result)
	assert.Contains(t, text, "is valid and readable")
	assert.Contains(t, text, "Pages: 1")
	assert.NotContains(t, text, "Title:")

	titled := pdftest.TitledTextPDF("Shipping Bill 1234567", billLines("1234567"))
	require.NoError(t, os.WriteFile(filepath.Join(f.input, "titled.pdf"), titled, 0o644))

	result, err = f.server.handleValidateFile(context.Background(), callRequest(map[string]any{"path": "titled.pdf"}))
	require.NoError(t, err)
	text = extractTextFromResult(t, result)
	assert.Contains(t, text, "Title: Shipping Bill 1234567")
	assert.Contains(t, text, "Producer: pdftest")

	result, err = f.server.handleValidateFile(context.Background(), callRequest(map[string]any{"path": "third.pdf"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(t, result), "PDF validation failed")
}
