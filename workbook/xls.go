package workbook

import (
	"fmt"

	"github.com/extrame/xls"
)

type xlsReader struct {
	wb *xls.WorkBook
}

func openXLS(path string) (sheetReader, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, fmt.Errorf("%s has no Workbook stream", path)
	}

	return &xlsReader{wb: wb}, nil
}

func (x *xlsReader) SheetNames() []string {
	out := make([]string, 0, x.wb.NumSheets())
	for i := 0; i < x.wb.NumSheets(); i++ {
		if sheet := x.wb.GetSheet(i); sheet != nil {
			out = append(out, sheet.Name)
		}
	}

	return out
}

func (x *xlsReader) Rows(name string) (rows [][]string, err error) {
	var sheet *xls.WorkSheet
	for i := 0; i < x.wb.NumSheets(); i++ {
		if s := x.wb.GetSheet(i); s != nil && s.Name == name {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("no sheet %q", name)
	}

	// The BIFF parser panics on malformed records
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("parsing sheet %q: %v", name, r)
		}
	}()

	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := xlsRow(sheet, rowID)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		values := make([]string, row.LastCol())
		for colID := range values {
			values[colID] = row.Col(colID)
		}
		rows = append(rows, values)
	}

	return trimTrailingEmpty(rows), nil
}

func (x *xlsReader) Close() error {
	return nil
}

// xlsRow returns nil for rows the file does not store; the library
// dereferences missing rows.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return sheet.Row(i)
}

func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, v := range last {
			if v != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}

	return rows
}
