package extract

import "strings"

// Sections records where the invoice and item detail headings sit within a
// document's Lines. A missing marker is -1.
type Sections struct {
	Invoice int
	Item    int
}

// LocateSections finds the "PART - II - INVOICE DETAILS" and
// "PART - III - ITEM DETAILS" headings. The invoice index is the last invoice
// heading seen before the first item heading.
func LocateSections(lines Lines) Sections {
	s := Sections{Invoice: -1, Item: -1}
	for i, ln := range lines {
		if strings.Contains(ln, "INVOICE") && strings.Contains(ln, "DETAILS") {
			s.Invoice = i
		}
		if strings.Contains(ln, "ITEM DETAILS") {
			s.Item = i
			break
		}
	}
	return s
}

// HasInvoiceSpan reports whether both headings exist with the invoice section first
func (s Sections) HasInvoiceSpan() bool {
	return s.Invoice >= 0 && s.Item > s.Invoice
}

// HasItem reports whether the item heading was found
func (s Sections) HasItem() bool {
	return s.Item >= 0
}
