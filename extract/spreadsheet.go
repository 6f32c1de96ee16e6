package extract

import (
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet extracts cell text from .xlsx (excelize) and legacy .xls workbooks.
// Cells are joined with a single space, sheet after sheet.
type Spreadsheet struct{}

// Extract implements Extractor.
func (Spreadsheet) Extract(path string) (string, error) {
	switch Ext(path) {
	case ".xlsx":
		return extractXLSX(path)
	case ".xls":
		return extractXLS(path)
	default:
		return "", fmt.Errorf("unsupported spreadsheet extension %q", Ext(path))
	}
}

func extractXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			for _, cell := range row {
				builder.WriteString(cell)
				builder.WriteByte(' ')
			}
		}
	}
	return builder.String(), nil
}

func extractXLS(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing workbook: %v", r)
		}
	}()

	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}

	var builder strings.Builder
	for i := 0; i < workbook.NumSheets(); i++ {
		sheet := workbook.GetSheet(i)
		if sheet == nil {
			continue
		}
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				builder.WriteString(row.Col(c))
				builder.WriteByte(' ')
			}
		}
	}
	return builder.String(), nil
}
