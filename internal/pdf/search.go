package pdf

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Search handles PDF discovery in an input directory.
type Search struct{}

// NewSearch creates a new PDF search handler.
func NewSearch() *Search {
	return &Search{}
}

// ListPDFs returns the PDF files directly inside directory, sorted by name.
// Sub-directories are not descended into and the extension match ignores case.
func (s *Search) ListPDFs(directory string) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	// os.ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(absDirectory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", directory)
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsPDFName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between listing and stat.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		files = append(files, FileInfo{
			Path:         filepath.Join(absDirectory, entry.Name()),
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}

	return files, nil
}
