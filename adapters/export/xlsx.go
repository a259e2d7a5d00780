package export

import (
	"fmt"
	"io"

	"gocompare/domain/table"

	"github.com/xuri/excelize/v2"
)

const (
	XLSXFilename    = "difference_analysis.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName       = "Sheet1"
)

// WriteXLSX writes the table to a workbook, styling significant p-value cells bold red.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := t.Header()
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	significantStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "FF0000"}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, boldStyle); err != nil {
		return err
	}

	pCol := len(header) - 1
	for i, rec := range t.Records() {
		rowNum := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetName, cell, &rec); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		if table.IsSignificant(rec[pCol-1]) {
			pCell, _ := excelize.CoordinatesToCellName(pCol, rowNum)
			if err := f.SetCellStyle(sheetName, pCell, pCell, significantStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return err
	}
	return f.Write(w)
}
