package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/a3tai/shipping-bill-reader/internal/extract"
)

// WriteCSV writes the header and every row of table as CSV.
func WriteCSV(w io.Writer, table extract.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table.Records()); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	return nil
}
