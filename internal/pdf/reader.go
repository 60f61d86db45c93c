package pdf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrNoText is returned when a document opens but none of its pages carry
// recoverable text (typically a scanned bill).
var ErrNoText = errors.New("no text content could be recovered from PDF")

// Reader recovers the plain text of each page of a PDF.
type Reader struct {
	maxTextSize int
	logger      *slog.Logger
}

// NewReader creates a reader with the default text limit. A nil logger uses
// slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		logger:      logger,
	}
}

// ReadPages returns the text of every page in page order. Text is NFKC
// normalised so non-breaking spaces and full-width digits reach the
// extractor as their plain forms.
func (r *Reader) ReadPages(path string) (pages []string, err error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	// The underlying parser panics on some malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF structure: %v", rec)
		}
	}()

	f, pdfReader, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	total := 0
	hasText := false
	numPages := pdfReader.NumPage()
	pages = make([]string, 0, numPages)

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			// Keep the page slot so page order is preserved.
			pages = append(pages, "")
			continue
		}

		content = norm.NFKC.String(content)
		truncated := false
		if total+len(content) > r.maxTextSize {
			content = truncateText(content, r.maxTextSize-total)
			truncated = true
			r.logger.Warn("text limit reached, document truncated",
				"file", path,
				"page", pageNum,
				"pages", numPages,
				"limit", r.maxTextSize)
		}

		total += len(content)
		if strings.TrimSpace(content) != "" {
			hasText = true
		}
		pages = append(pages, content)

		if truncated {
			break
		}
	}

	if !hasText {
		return nil, ErrNoText
	}

	return pages, nil
}

// open is pdf.Open that also recovers panics raised while parsing the
// trailer and cross-reference table, closing the file on every failure.
func open(path string) (f *os.File, r *pdf.Reader, err error) {
	f, err = os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			f.Close()
			f, r, err = nil, nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	r, err = pdf.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return f, r, nil
}

// truncateText cuts s to at most limit bytes without splitting a rune
func truncateText(s string, limit int) string {
	if limit >= len(s) {
		return s
	}
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
