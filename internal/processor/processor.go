// Package processor turns shipping-bill PDFs into rows of the output table.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/a3tai/shipping-bill-reader/internal/extract"
	"github.com/a3tai/shipping-bill-reader/internal/pdf"
)

// TextSource recovers the text of each page of a document on disk.
type TextSource interface {
	ReadPages(path string) ([]string, error)
}

// Options configures a Processor.
type Options struct {
	// Workers bounds the number of documents processed concurrently by
	// ProcessDirectory. Zero means runtime.NumCPU().
	Workers int
	// FailFast aborts a batch on the first document that cannot be decoded.
	FailFast bool
	// MaxFileSize rejects larger files before they are opened. Zero disables the check.
	MaxFileSize int64
	// Layout holds the line-window constants of the extractor. The zero
	// value means extract.DefaultOptions().
	Layout extract.Options
	// Source overrides the PDF text reader.
	Source TextSource
}

// DocumentResult is the extraction of a single document.
type DocumentResult struct {
	Path     string              `json:"path"`
	Common   extract.CommonFields `json:"common"`
	Items    []extract.LineItem  `json:"items"`
	Strategy string              `json:"strategy"`
	Rows     extract.Table       `json:"rows"`
}

// Processor runs text recovery and extraction for documents.
type Processor struct {
	extractor *extract.Extractor
	source    TextSource
	validator *pdf.Validator
	search    *pdf.Search
	workers   int
	failFast  bool
	logger    *slog.Logger
}

// New creates a processor. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}

	source := opts.Source
	if source == nil {
		source = pdf.NewReader(logger)
	}

	layout := opts.Layout
	if layout == (extract.Options{}) {
		layout = extract.DefaultOptions()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Processor{
		extractor: extract.NewExtractor(layout, logger),
		source:    source,
		validator: pdf.NewValidator(opts.MaxFileSize),
		search:    pdf.NewSearch(),
		workers:   workers,
		failFast:  opts.FailFast,
		logger:    logger,
	}
}

// Workers returns the batch concurrency limit.
func (p *Processor) Workers() int {
	return p.workers
}

// ProcessFile recovers the text of one PDF and extracts its rows. Failures to
// open or read the document are returned as *DecodeError.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("processing", "file", filepath.Base(path))

	if err := p.validator.ValidateFile(path); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	pages, err := p.source.ReadPages(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: p.explain(path, err)}
	}

	return p.process(path, extract.FromPages(pages)), nil
}

// ProcessText runs extraction on text that has already been recovered.
func (p *Processor) ProcessText(name, text string) *DocumentResult {
	return p.process(name, extract.NewDocument(text))
}

func (p *Processor) process(path string, doc extract.Document) *DocumentResult {
	result := p.extractor.Extract(doc)
	rows := result.Rows()

	p.logger.Debug("document extracted",
		"file", filepath.Base(path),
		"strategy", result.Strategy,
		"items", len(result.Items))

	return &DocumentResult{
		Path:     path,
		Common:   result.Common,
		Items:    result.Items,
		Strategy: result.Strategy,
		Rows:     rows,
	}
}

// explain adds what pdfcpu can tell about the document structure to a read failure.
func (p *Processor) explain(path string, err error) error {
	info, inspectErr := p.validator.Inspect(path)
	if inspectErr != nil {
		return err
	}
	if info.Encrypted {
		return fmt.Errorf("%w (document is encrypted)", err)
	}
	if info.Pages == 0 {
		return fmt.Errorf("%w (document has no pages)", err)
	}
	return err
}
