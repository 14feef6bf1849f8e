package excel

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used for exported workbooks
const DefaultSheet = "Sheet1"

// WriteWorkbook writes rows to a single-sheet XLSX workbook. Cells that parse as
// numbers are stored as numbers so spreadsheet tools can chart them.
func WriteWorkbook(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	rowIdx := 1
	if len(header) > 0 {
		if err := writeRow(f, rowIdx, header); err != nil {
			return err
		}
		rowIdx++
	}
	for _, row := range rows {
		if err := writeRow(f, rowIdx, row); err != nil {
			return err
		}
		rowIdx++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, rowIdx int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		if v, err := strconv.ParseFloat(c, 64); err == nil {
			values[i] = v
			continue
		}
		values[i] = c
	}
	start, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(DefaultSheet, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowIdx, err)
	}
	return nil
}
