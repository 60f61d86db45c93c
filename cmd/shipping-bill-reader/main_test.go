package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/shipping-bill-reader/internal/pdf/pdftest"
)

const testVersion = "1.2.3"

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = testVersion
	buildTime = "2025-01-12_10:30:00"
	gitCommit = "abc123"

	stdout, _, err := runCommand(t, "version")
	require.NoError(t, err)

	for _, want := range []string{
		"Shipping Bill Reader",
		"Version: " + testVersion,
		"Build Time: 2025-01-12_10:30:00",
		"Git Commit: abc123",
		"Built with: go",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestExtractCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	pdftest.WriteTextPDF(t, filepath.Join(in, "bill.pdf"), []string{
		"SHIPPING BILL FOR EXPORT OF GOODS",
		"SB No 1234567   Date 12-JAN-2025",
		"CONSIGNEE NAME AND ADDRESS",
		"FLORA TRADING PTE LTD",
		"PART - II - INVOICE DETAILS",
		"1.INV NO JT-086/24-25",
		"4.CURRENCY",
		"SGD",
		"EXCHANGE RATE 1 SGD INR 60.8",
		"06039000 FRESH MIXED FLOWERS 632 KGS 3 1896",
		"PART - III - ITEM DETAILS",
	})
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.pdf"), []byte(strings.Repeat("broken ", 30)), 0o644))

	stdout, stderr, err := runCommand(t, "extract", "--dir", in, "--out", out, "--workers", "2")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Files processed: 1\n")
	assert.Contains(t, stdout, "Rows extracted: 1\n")
	assert.Contains(t, stdout, "Failures: 1\n")
	assert.Contains(t, stdout, "broken.pdf")
	assert.Contains(t, stderr, "msg=processing")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var csvName string
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), "shipping_bill_"))
		assert.Contains(t, stdout, "Wrote "+filepath.Join(out, e.Name()))
		if strings.HasSuffix(e.Name(), ".csv") {
			csvName = e.Name()
		}
	}
	require.NotEmpty(t, csvName)

	data, err := os.ReadFile(filepath.Join(out, csvName))
	require.NoError(t, err)
	assert.Equal(t,
		"SB Date,SB NO,Consignee Name,Inv No,Description,Qty,Rate,Total,Exchange Rate\n"+
			"12-JAN-2025,1234567,FLORA TRADING PTE LTD,JT-086/24-25,FRESH MIXED FLOWERS,632,SGD 3,1896,60.8\n",
		string(data))
}

func TestExtractCommand_NoPDFs(t *testing.T) {
	in := t.TempDir()

	stdout, _, err := runCommand(t, "extract", "--dir", in, "--out", filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
	assert.Contains(t, stdout, "No PDF files found in "+in)
}

func TestExtractCommand_FailFast(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.pdf"), []byte(strings.Repeat("broken ", 30)), 0o644))

	_, _, err := runCommand(t, "extract", "--dir", in, "--out", filepath.Join(t.TempDir(), "out"), "--fail-fast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestExtractCommand_InvalidConfig(t *testing.T) {
	_, _, err := runCommand(t, "extract", "--formats", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)

			logger.Debug("debug message")
			logger.Info("info message")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug message"))
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "info message"))
		})
	}
}
