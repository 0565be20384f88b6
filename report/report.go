// Package report renders the per-pair quality report as static HTML plus a
// keyed TSV copy of the checks table, and reads both back.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/rundetails"
)

const (
	// Suffix ends the file name of every per-pair HTML report.
	Suffix = "_quality_checks.html"

	// TSVSuffix ends the file name of the checks intermediate written next
	// to each report.
	TSVSuffix = "_quality_checks.tsv"
)

//go:embed report.html
var reportHTML string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"resultClass": func(s checks.Status) string { return strings.ToLower(string(s)) },
}).Parse(reportHTML))

// Report is everything the page shows for one worksheet pair.
type Report struct {
	Panel   string
	Details []rundetails.Detail
	Rows    []checks.Row

	Profile    string
	Thresholds string
	Build      string
}

// New copies details and rows and orders both by worksheet id.
func New(panel string, details []rundetails.Detail, rows []checks.Row) Report {
	d := append([]rundetails.Detail(nil), details...)
	rundetails.Sort(d)

	r := append([]checks.Row(nil), rows...)
	checks.SortRows(r)

	return Report{Panel: panel, Details: d, Rows: r}
}

// Worksheets lists the worksheet ids of the run details in sorted order.
func (r Report) Worksheets() []string {
	out := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		out = append(out, d.Worksheet)
	}
	sort.Strings(out)

	return out
}

func (r Report) Stem() string {
	return strings.Join(r.Worksheets(), "_")
}

// FileName is <ws1>_<ws2>_quality_checks.html.
func (r Report) FileName() string {
	return r.Stem() + Suffix
}

func (r Report) TSVName() string {
	return r.Stem() + TSVSuffix
}

// Render writes the report page to w.
func Render(w io.Writer, r Report) error {
	data := struct {
		Report
		DetailColumns []string
	}{r, rundetails.Columns}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering %s report: %w", r.Panel, err)
	}

	return nil
}
