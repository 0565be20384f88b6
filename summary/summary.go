// Package summary compiles previously generated pair reports into one
// cross-run table of test cases.
package summary

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/report"
)

const (
	// FileName is where the compiled summary page is written.
	FileName = "test_quality_check.html"

	XLSXName = "test_quality_check.xlsx"
)

// ShapePolicy decides what a malformed report does to the aggregation.
type ShapePolicy int

const (
	// Abort stops at the first malformed report.
	Abort ShapePolicy = iota
	// Skip logs the malformed report and leaves it out.
	Skip
)

func (p ShapePolicy) String() string {
	if p == Skip {
		return "skip"
	}

	return "abort"
}

func ParseShapePolicy(s string) (ShapePolicy, error) {
	switch s {
	case "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	}

	return Abort, fmt.Errorf("unknown shape policy %q (want abort or skip)", s)
}

type Options struct {
	Policy ShapePolicy
}

// Row is one test case: a report's pair-level worksheet name and its
// results in report order.
type Row struct {
	TestCase int
	Pair     string
	Checks   []checks.Status
}

type Table struct {
	Rows []Row

	// Skipped names the reports a Skip policy left out.
	Skipped []string
}

// Columns are the summary headers.
func Columns() []string {
	out := []string{"Test case", "Worksheet pair"}
	for i := 1; i <= checks.ChecksPerPair; i++ {
		out = append(out, fmt.Sprintf("Check %d", i))
	}

	return out
}

func (r Row) Values() []string {
	out := make([]string, 0, 2+len(r.Checks))
	out = append(out, fmt.Sprint(r.TestCase), r.Pair)
	for _, c := range r.Checks {
		out = append(out, string(c))
	}

	return out
}

// Summarize validates the checks table of one report and condenses it into
// a summary row. It must hold exactly one row per check and exactly one
// pair-level row.
func Summarize(name string, rows []checks.Row) (Row, error) {
	if len(rows) != checks.ChecksPerPair {
		return Row{}, tshcqc.Shapef("%s has %d result rows, expected %d", name, len(rows), checks.ChecksPerPair)
	}

	var pairs []string
	out := Row{Checks: make([]checks.Status, 0, len(rows))}
	for _, r := range rows {
		if strings.Contains(r.Worksheet, "_") {
			pairs = append(pairs, r.Worksheet)
		}
		out.Checks = append(out.Checks, r.Result)
	}
	if len(pairs) != 1 {
		return Row{}, tshcqc.Shapef("%s has %d pair-level rows, expected 1", name, len(pairs))
	}
	out.Pair = pairs[0]

	return out, nil
}

// Reports lists the per-pair HTML reports in dir, sorted by name.
func Reports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &tshcqc.MissingArtifactError{Msg: "cannot list report directory " + dir, Err: err}
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), report.Suffix) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}

	return out, nil
}

// Aggregate reads every report in dir and numbers the accepted ones as
// consecutive test cases.
func Aggregate(dir string, opts Options) (*Table, error) {
	paths, err := Reports(dir)
	if err != nil {
		return nil, err
	}

	out := &Table{}
	for _, path := range paths {
		name := filepath.Base(path)

		row, err := readReport(path)
		if err != nil {
			var shape *tshcqc.ShapeError
			if opts.Policy == Skip && errors.As(err, &shape) {
				log.Printf("Skipping %s: %v\n", name, err)
				out.Skipped = append(out.Skipped, name)
				continue
			}
			return nil, err
		}

		row.TestCase = len(out.Rows) + 1
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

func readReport(path string) (Row, error) {
	rows, err := report.ReadChecks(path)
	if err != nil {
		return Row{}, err
	}

	return Summarize(filepath.Base(path), rows)
}
