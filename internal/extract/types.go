package extract

import "strings"

// columns is the output header. Downstream CSV and XLSX consumers depend on
// the exact names and order.
var columns = [...]string{
	"SB Date",
	"SB NO",
	"Consignee Name",
	"Inv No",
	"Description",
	"Qty",
	"Rate",
	"Total",
	"Exchange Rate",
}

// Columns returns a copy of the result table header
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns[:])
	return out
}

// Lines is the normalized, order-preserving line view of a document
type Lines []string

// Document is the recovered text of one shipping bill together with its line view
type Document struct {
	Text  string
	Lines Lines
}

// NewDocument builds a Document from the full recovered text
func NewDocument(text string) Document {
	return Document{
		Text:  text,
		Lines: NormalizeLines(text),
	}
}

// FromPages concatenates page texts in page order and builds a Document.
// Pages are joined with a newline so a token can never span a page boundary.
func FromPages(pages []string) Document {
	return NewDocument(strings.Join(pages, "\n"))
}

// CommonFields holds the document-level values shared by every line item.
// An empty string means the field was not found.
type CommonFields struct {
	SBDate        string `json:"sb_date"`
	SBNo          string `json:"sb_no"`
	ConsigneeName string `json:"consignee_name"`
	InvNo         string `json:"inv_no"`
	Currency      string `json:"currency"`
	ExchangeRate  string `json:"exchange_rate"`
}

// LineItem is one declared good within a shipping bill
type LineItem struct {
	Description string `json:"description"`
	Qty         string `json:"qty"`
	Rate        string `json:"rate"`
	Total       string `json:"total"`
}

// Row is one output record: the common fields crossed with a single line item
type Row struct {
	SBDate        string `json:"SB Date"`
	SBNo          string `json:"SB NO"`
	ConsigneeName string `json:"Consignee Name"`
	InvNo         string `json:"Inv No"`
	Description   string `json:"Description"`
	Qty           string `json:"Qty"`
	Rate          string `json:"Rate"`
	Total         string `json:"Total"`
	ExchangeRate  string `json:"Exchange Rate"`
}

// NewRow merges common fields with a line item. The rate is prefixed with the
// currency code when both are present.
func NewRow(common CommonFields, item LineItem) Row {
	rate := item.Rate
	if common.Currency != "" && item.Rate != "" {
		rate = common.Currency + " " + item.Rate
	}

	return Row{
		SBDate:        common.SBDate,
		SBNo:          common.SBNo,
		ConsigneeName: common.ConsigneeName,
		InvNo:         common.InvNo,
		Description:   item.Description,
		Qty:           item.Qty,
		Rate:          rate,
		Total:         item.Total,
		ExchangeRate:  common.ExchangeRate,
	}
}

// ExpandRows produces one Row per line item
func ExpandRows(common CommonFields, items []LineItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, NewRow(common, item))
	}
	return rows
}

// Values returns the row's cells in Columns order
func (r Row) Values() []string {
	return []string{
		r.SBDate,
		r.SBNo,
		r.ConsigneeName,
		r.InvNo,
		r.Description,
		r.Qty,
		r.Rate,
		r.Total,
		r.ExchangeRate,
	}
}

// Table is the ordered result of one or more processed documents
type Table []Row

// Records returns the header followed by every row's values
func (t Table) Records() [][]string {
	records := make([][]string, 0, len(t)+1)
	records = append(records, Columns())
	for _, row := range t {
		records = append(records, row.Values())
	}
	return records
}
