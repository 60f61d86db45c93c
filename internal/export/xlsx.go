package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/shipping-bill-reader/internal/extract"
)

// SheetName is the worksheet the table is written to.
const SheetName = "Sheet1"

var columnWidths = []float64{
	12, // SB Date
	10, // SB NO
	32, // Consignee Name
	16, // Inv No
	40, // Description
	8,  // Qty
	10, // Rate
	10, // Total
	14, // Exchange Rate
}

// WriteXLSX writes table as a single-sheet workbook. Every cell is written as
// text so codes and amounts keep their recovered form.
func WriteXLSX(w io.Writer, table extract.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for r, record := range table.Records() {
		for c, value := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(SheetName, cell, value); err != nil {
				return fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
