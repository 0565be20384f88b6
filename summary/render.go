package summary

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/workbook"
)

//go:embed summary.html
var summaryHTML string

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"resultClass": func(s checks.Status) string { return strings.ToLower(string(s)) },
}).Parse(summaryHTML))

// Render writes the summary page. A non-empty stylesheet is linked from the
// page head.
func Render(w io.Writer, t *Table, stylesheet string) error {
	data := struct {
		*Table
		Columns    []string
		Stylesheet string
	}{t, Columns(), stylesheet}

	if err := summaryTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	return nil
}

// WriteXLSX writes the summary as a one-sheet spreadsheet.
func WriteXLSX(path string, t *Table) error {
	out := workbook.Table{Sheet: "Summary", Header: Columns()}
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, r.Values())
	}

	return workbook.Write(path, out)
}
