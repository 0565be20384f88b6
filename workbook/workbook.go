// Package workbook extracts the sheets of the pipeline's spreadsheet reports
// into plain string tables. Modern reports are .xlsx; a few older worksheets
// still carry .xls files, which are read with the legacy BIFF parser.
package workbook

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/tshcqc"
)

// Table holds one sheet. The first spreadsheet row becomes the header; every
// following row is data.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// Len is the number of data rows (the header is not counted).
func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}

	return -1, tshcqc.MissingArtifactf("sheet %q has no column %q (columns: %s)", t.Sheet, name, strings.Join(t.Header, ", "))
}

// Column returns every data cell of the named column. Short rows yield "".
func (t Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, cell(row, idx))
	}

	return out, nil
}

// Floats parses the named column as numbers. Blank cells are skipped, which
// matches how the pipeline leaves cells empty for samples it did not
// measure.
func (t Table) Floats(name string) ([]float64, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(t.Rows))
	for i, row := range t.Rows {
		raw := strings.TrimSpace(cell(row, idx))
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			// Spreadsheet row numbers are 1-based and the header occupies row 1
			return nil, &tshcqc.ConfigurationError{
				Msg: fmt.Sprintf("sheet %q column %q row %d: %q is not a number", t.Sheet, name, i+2, raw),
				Err: err,
			}
		}
		out = append(out, v)
	}

	return out, nil
}

// Lookup finds the first row whose keyColumn equals key and returns its
// valueColumn. The boolean is false when no row carries the key.
func (t Table) Lookup(keyColumn, valueColumn, key string) (string, bool, error) {
	ki, err := t.ColumnIndex(keyColumn)
	if err != nil {
		return "", false, err
	}
	vi, err := t.ColumnIndex(valueColumn)
	if err != nil {
		return "", false, err
	}

	for _, row := range t.Rows {
		if strings.TrimSpace(cell(row, ki)) == key {
			return strings.TrimSpace(cell(row, vi)), true, nil
		}
	}

	return "", false, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}

	return ""
}

func newTable(sheet string, rows [][]string) Table {
	t := Table{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}

	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = rows[1:]

	return t
}

type sheetReader interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// Workbook is an opened spreadsheet.
type Workbook struct {
	Path string
	r    sheetReader
}

// Open reads the spreadsheet at path. The parse is abandoned, and its
// result closed once it arrives, when ctx is done first.
func Open(ctx context.Context, path string) (*Workbook, error) {
	type opened struct {
		r   sheetReader
		err error
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	done := make(chan opened, 1)
	go func() {
		var o opened
		if strings.EqualFold(filepath.Ext(path), ".xls") {
			o.r, o.err = openXLS(path)
		} else {
			o.r, o.err = openXLSX(path)
		}
		done <- o
	}()

	select {
	case <-ctx.Done():
		go func() {
			if o := <-done; o.err == nil {
				o.r.Close()
			}
		}()
		return nil, fmt.Errorf("opening %s: %w", path, ctx.Err())
	case o := <-done:
		if o.err != nil {
			return nil, &tshcqc.MissingArtifactError{Msg: fmt.Sprintf("cannot open spreadsheet %s", path), Err: o.err}
		}
		return &Workbook{Path: path, r: o.r}, nil
	}
}

func (w *Workbook) Close() error {
	return w.r.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.r.SheetNames()
}

// Sheet extracts the named sheet.
func (w *Workbook) Sheet(name string) (Table, error) {
	found := false
	for _, s := range w.r.SheetNames() {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return Table{}, tshcqc.MissingArtifactf("%s has no sheet %q", filepath.Base(w.Path), name)
	}

	rows, err := w.r.Rows(name)
	if err != nil {
		return Table{}, fmt.Errorf("reading sheet %q of %s: %w", name, w.Path, err)
	}

	return newTable(name, rows), nil
}

// ReadSheet opens path, extracts one sheet and closes the file.
func ReadSheet(ctx context.Context, path, sheet string) (Table, error) {
	wb, err := Open(ctx, path)
	if err != nil {
		return Table{}, err
	}
	defer wb.Close()

	return wb.Sheet(sheet)
}

// Where keeps the data rows whose cell in column satisfies keep.
func (t Table) Where(column string, keep func(string) bool) (Table, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return Table{}, err
	}

	out := Table{Sheet: t.Sheet, Header: t.Header}
	for _, row := range t.Rows {
		if keep(cell(row, idx)) {
			out.Rows = append(out.Rows, row)
		}
	}

	return out, nil
}
