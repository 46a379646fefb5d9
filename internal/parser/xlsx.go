package parser

import (
	"github.com/xuri/excelize/v2"

	"github.com/fjglira/xraysync/internal/domain"
)

// XLSXReader reads a worksheet of an Excel workbook with excelize.
type XLSXReader struct {
	sheet string
}

// NewXLSXReader creates a reader for the named sheet, or the workbook's
// active sheet when sheet is empty.
func NewXLSXReader(sheet string) *XLSXReader {
	return &XLSXReader{sheet: sheet}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *XLSXReader) SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Read returns every row of the sheet. excelize drops trailing empty cells,
// so rows are padded to the widest row to keep the sheet's column span.
// The Test ID column comes from the unformatted cell value so number formats
// such as "0.00" or "#,##0" do not leak into the id.
func (r *XLSXReader) Read(filePath string) ([]domain.RawRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, domain.NewError("read", filePath, 0, "failed to open workbook", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("read", filePath, 0,
			"failed to read sheet "+sheet,
			"check the sheet name passed with --sheet",
			err)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, domain.NewError("read", filePath, 0, "failed to read raw values of sheet "+sheet, err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([]domain.RawRow, len(rows))
	for i, row := range rows {
		padded := make(domain.RawRow, width)
		copy(padded, row)
		if i < len(raw) && len(raw[i]) > domain.ColTestID && len(padded) > domain.ColTestID {
			padded[domain.ColTestID] = raw[i][domain.ColTestID]
		}
		out[i] = padded
	}
	return out, nil
}
