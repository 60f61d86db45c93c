// Package export writes the shipping-bill table to CSV and XLSX files.
package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/shipping-bill-reader/internal/extract"
)

// Format is an output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultPrefix names output files shipping_bill_<unix-timestamp>.<ext>.
const DefaultPrefix = "shipping_bill"

// ParseFormats validates format names, ignoring case and duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var formats []Format
	seen := map[Format]bool{}

	for _, name := range names {
		format := Format(strings.ToLower(strings.TrimSpace(name)))
		switch format {
		case FormatCSV, FormatXLSX:
		default:
			return nil, fmt.Errorf("unsupported output format: %q (use csv or xlsx)", name)
		}
		if !seen[format] {
			seen[format] = true
			formats = append(formats, format)
		}
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("at least one output format is required")
	}
	return formats, nil
}

// FileName returns the output file name for a run started at ts.
func FileName(prefix string, format Format, ts time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%d.%s", prefix, ts.Unix(), format)
}

// Service writes tables into an output directory.
type Service struct {
	outputDir string
	prefix    string
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates an export service. A nil logger uses slog.Default().
func NewService(outputDir, prefix string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
		logger:    logger,
	}
}

// Export writes table once per format and returns the written paths in
// format order. All files of one call share a timestamp.
func (s *Service) Export(table extract.Table, formats []Format) ([]string, error) {
	start := s.now()

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var buf bytes.Buffer
		if err := Write(&buf, table, format); err != nil {
			return paths, err
		}

		path := filepath.Join(s.outputDir, FileName(s.prefix, format, start))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}

		s.logger.Info("export.ok",
			"format", string(format),
			"path", path,
			"rows", len(table),
		)
		paths = append(paths, path)
	}

	return paths, nil
}

// Write encodes table in the given format.
func Write(w io.Writer, table extract.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatXLSX:
		return WriteXLSX(w, table)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}
