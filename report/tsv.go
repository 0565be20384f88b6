package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/workbook"
	"github.com/gocarina/gocsv"
)

// WriteTSV writes the checks table as tab-delimited text with a header
// row.
func WriteTSV(w io.Writer, rows []checks.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return err
	}
	cw.Flush()

	return cw.Error()
}

// ReadTSV reads a checks table written by WriteTSV. Every row must carry a
// PASS or FAIL result.
func ReadTSV(r io.Reader) ([]checks.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	var rows []checks.Row
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, err
	}

	for i, row := range rows {
		if err := checkResult("tsv", i, string(row.Result)); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// CheckRows reads checks rows out of a re-parsed HTML table with the
// Worksheet, Check, Description and Result columns.
func CheckRows(t workbook.Table) ([]checks.Row, error) {
	cols := make([][]string, 0, 4)
	for _, name := range []string{"Worksheet", "Check", "Description", "Result"} {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}

	out := make([]checks.Row, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if err := checkResult(t.Sheet, i, cols[3][i]); err != nil {
			return nil, err
		}

		out = append(out, checks.Row{
			Worksheet:   cols[0][i],
			Check:       cols[1][i],
			Description: cols[2][i],
			Result:      checks.Status(cols[3][i]),
		})
	}

	return out, nil
}

func checkResult(source string, i int, result string) error {
	switch checks.Status(result) {
	case checks.Pass, checks.Fail:
		return nil
	}

	return tshcqc.Configurationf("%s row %d has result %q", source, i+1, result)
}

func tableName(i int) string {
	return fmt.Sprintf("table %d", i+1)
}
