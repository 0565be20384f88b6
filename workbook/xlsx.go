package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct {
	f *excelize.File
}

func openXLSX(path string) (sheetReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	return &xlsxReader{f: f}, nil
}

func (x *xlsxReader) SheetNames() []string {
	return x.f.GetSheetList()
}

// Rows returns raw cell values so that percentages and fractions are not
// rewritten by the cell's display format.
func (x *xlsxReader) Rows(sheet string) ([][]string, error) {
	return x.f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func (x *xlsxReader) Close() error {
	return x.f.Close()
}

// Write saves tables as sheets of a new .xlsx file, in order.
func Write(path string, tables ...Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("workbook.Write: no tables for %s", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return err
		}

		rows := append([][]string{t.Header}, t.Rows...)
		for r, row := range rows {
			cellName, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			if err := f.SetSheetRow(t.Sheet, cellName, &values); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
