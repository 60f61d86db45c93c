package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DirectoryStats summarises a set of PDF files.
type DirectoryStats struct {
	TotalFiles       int    `json:"total_files"`
	TotalSize        int64  `json:"total_size"`
	LargestFileName  string `json:"largest_file_name,omitempty"`
	LargestFileSize  int64  `json:"largest_file_size"`
	SmallestFileName string `json:"smallest_file_name,omitempty"`
	SmallestFileSize int64  `json:"smallest_file_size"`
	AverageFileSize  int64  `json:"average_file_size"`
}

// Metadata is the document information dictionary of a PDF.
type Metadata struct {
	Path        string `json:"path"`
	Pages       int    `json:"pages"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Producer    string `json:"producer,omitempty"`
	CreatedDate string `json:"created_date,omitempty"`
}

// SummarizeFiles returns size statistics for files.
func SummarizeFiles(files []FileInfo) DirectoryStats {
	var stats DirectoryStats

	for _, f := range files {
		stats.TotalFiles++
		stats.TotalSize += f.Size

		if f.Size > stats.LargestFileSize || stats.LargestFileName == "" {
			stats.LargestFileSize = f.Size
			stats.LargestFileName = f.Name
		}
		if f.Size < stats.SmallestFileSize || stats.SmallestFileName == "" {
			stats.SmallestFileSize = f.Size
			stats.SmallestFileName = f.Name
		}
	}

	if stats.TotalFiles > 0 {
		stats.AverageFileSize = stats.TotalSize / int64(stats.TotalFiles)
	}

	return stats
}

// ReadMetadata returns the page count and information dictionary of a PDF.
func (r *Reader) ReadMetadata(path string) (result *Metadata, err error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("failed to parse PDF structure: %v", rec)
		}
	}()

	f, pdfReader, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result = &Metadata{
		Path:  path,
		Pages: pdfReader.NumPage(),
	}
	extractMetadata(pdfReader, result)

	return result, nil
}

// extractMetadata copies the Info dictionary entries that are present
func extractMetadata(r *pdf.Reader, result *Metadata) {
	defer func() {
		// Metadata is optional; a malformed dictionary leaves the fields empty.
		_ = recover()
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return
	}

	info := trailer.Key("Info")
	if info.IsNull() {
		return
	}

	text := func(key string) string {
		v := info.Key(key)
		if v.IsNull() {
			return ""
		}
		return strings.TrimSpace(v.Text())
	}

	result.Title = text("Title")
	result.Author = text("Author")
	result.Subject = text("Subject")
	result.Producer = text("Producer")
	result.CreatedDate = text("CreationDate")
}
