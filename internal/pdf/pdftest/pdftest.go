// Package pdftest builds small text-only PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// TextPDF returns a PDF with one page per element of pages. Each string in a
// page becomes its own text object, so the recovered text has one line per
// string. Only printable ASCII survives the WinAnsi font unchanged.
func TextPDF(pages ...[]string) []byte {
	return build("", pages)
}

// TitledTextPDF is TextPDF with an Info dictionary carrying title.
func TitledTextPDF(title string, pages ...[]string) []byte {
	return build(title, pages)
}

func build(title string, pages [][]string) []byte {
	var buf bytes.Buffer
	offsets := []int{}

	buf.WriteString("%PDF-1.4\n")

	writeObject := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObject(1, "<<\n/Type /Catalog\n/Pages 2 0 R\n>>")
	writeObject(2, fmt.Sprintf("<<\n/Type /Pages\n/Kids [%s]\n/Count %d\n>>",
		strings.Join(kids, " "), len(pages)))
	writeObject(3, "<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n/Encoding /WinAnsiEncoding\n>>")

	for i, lines := range pages {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1

		writeObject(pageNum, fmt.Sprintf(
			"<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Resources << /Font << /F1 3 0 R >> >>\n/Contents %d 0 R\n>>",
			contentNum))

		stream := contentStream(lines)
		writeObject(contentNum, fmt.Sprintf("<<\n/Length %d\n>>\nstream\n%s\nendstream", len(stream), stream))
	}

	info := ""
	if title != "" {
		infoNum := len(offsets) + 1
		writeObject(infoNum, fmt.Sprintf("<<\n/Title (%s)\n/Producer (pdftest)\n>>", escape(title)))
		info = fmt.Sprintf("/Info %d 0 R\n", infoNum)
	}

	size := len(offsets) + 1
	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<<\n/Size %d\n/Root 1 0 R\n%s>>\nstartxref\n%d\n%%%%EOF\n", size, info, xrefStart)

	return buf.Bytes()
}

// WriteTextPDF writes TextPDF(pages...) to path.
func WriteTextPDF(t testing.TB, path string, pages ...[]string) {
	t.Helper()

	if err := os.WriteFile(path, TextPDF(pages...), 0o644); err != nil {
		t.Fatalf("failed to write PDF fixture: %v", err)
	}
}

func contentStream(lines []string) string {
	var sb strings.Builder
	y := 750
	for _, line := range lines {
		fmt.Fprintf(&sb, "BT\n/F1 10 Tf\n50 %d Td\n(%s) Tj\nET\n", y, escape(line))
		y -= 14
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

// WithStartxref rewrites the trailer of data so startxref points at offset.
// An offset past the end of the file makes the xref lookup fail.
func WithStartxref(data []byte, offset int) []byte {
	i := bytes.LastIndex(data, []byte("startxref\n"))
	if i < 0 {
		return data
	}

	out := append([]byte{}, data[:i]...)
	return fmt.Appendf(out, "startxref\n%d\n%%%%EOF\n", offset)
}
