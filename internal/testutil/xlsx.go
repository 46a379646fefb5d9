// Package testutil builds spreadsheet fixtures for tests.
package testutil

import (
	"github.com/xuri/excelize/v2"
)

// WriteXLSX saves rows to a new workbook at path, starting at A1 of the
// default sheet. A nil cell is left empty.
func WriteXLSX(path string, rows [][]any) error {
	return WriteXLSXSheet(path, "Sheet1", rows)
}

// WriteXLSXSheet saves rows to the named sheet and makes it the active one.
func WriteXLSXSheet(path, sheet string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		idx, err = f.NewSheet(sheet)
		if err != nil {
			return err
		}
	}
	f.SetActiveSheet(idx)

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
