package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/shipping-bill-reader/internal/extract"
	"github.com/a3tai/shipping-bill-reader/internal/pdf"
)

// BatchResult is the outcome of processing every PDF in a directory.
type BatchResult struct {
	RunID     string        `json:"run_id"`
	Directory string        `json:"directory"`
	Files     []string      `json:"files"`
	Table     extract.Table `json:"table"`
	Failures  []Failure     `json:"failures,omitempty"`
}

// FilesProcessed is the number of documents that contributed rows.
func (b *BatchResult) FilesProcessed() int {
	return len(b.Files) - len(b.Failures)
}

// slot holds one document's outcome until results are merged in listing order.
type slot struct {
	file   pdf.FileInfo
	result *DocumentResult
	err    error
}

// ListPDFs returns the documents ProcessDirectory would process, in order.
func (p *Processor) ListPDFs(dir string) ([]pdf.FileInfo, error) {
	return p.search.ListPDFs(dir)
}

// ProcessDirectory processes every PDF directly inside dir and concatenates
// their rows in directory-listing order. Documents that cannot be decoded
// are reported in Failures unless FailFast is set, in which case the first
// *DecodeError is returned.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	files, err := p.search.ListPDFs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, dir)
	}

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("batch started", "directory", dir, "files", len(files), "workers", p.workers)

	slots := make([]slot, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, file := range files {
		slots[i].file = file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := p.ProcessFile(gctx, file.Path)
			slots[i].result = result
			slots[i].err = err

			var decodeErr *DecodeError
			if errors.As(err, &decodeErr) {
				logger.Warn("skipping document", "file", file.Name, "error", decodeErr.Err)
				if p.failFast {
					return err
				}
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := merge(runID, dir, slots)
	logger.Info("batch complete",
		"files_processed", batch.FilesProcessed(),
		"rows_extracted", len(batch.Table),
		"failures", len(batch.Failures))

	return batch, nil
}

func merge(runID, dir string, slots []slot) *BatchResult {
	batch := &BatchResult{
		RunID:     runID,
		Directory: dir,
		Files:     make([]string, 0, len(slots)),
		Table:     extract.Table{},
	}

	for _, s := range slots {
		batch.Files = append(batch.Files, s.file.Name)
		if s.err != nil {
			batch.Failures = append(batch.Failures, Failure{
				Path:   s.file.Path,
				Name:   s.file.Name,
				Reason: s.err.Error(),
			})
			continue
		}
		batch.Table = append(batch.Table, s.result.Rows...)
	}

	return batch
}

// LogValue keeps batch log records compact.
func (b *BatchResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", b.RunID),
		slog.Int("files", len(b.Files)),
		slog.Int("rows", len(b.Table)),
		slog.Int("failures", len(b.Failures)),
	)
}
