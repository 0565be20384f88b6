// Package checks implements the pass/fail quality checks run over one TSHC
// worksheet pair and the ordered table their results accumulate in.
package checks

import (
	"context"
	"sort"
)

type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

func statusOf(failed bool) Status {
	if failed {
		return Fail
	}

	return Pass
}

// Row is one line of the check results table.
type Row struct {
	Worksheet   string `csv:"Worksheet"`
	Check       string `csv:"Check"`
	Description string `csv:"Description"`
	Result      Status `csv:"Result"`
}

// Result accumulates rows in the order checks produced them. Rows are never
// changed once appended.
type Result struct {
	rows []Row
}

func (r *Result) Append(rows ...Row) {
	r.rows = append(r.rows, rows...)
}

func (r *Result) Len() int {
	return len(r.rows)
}

// Rows returns a copy in insertion order.
func (r *Result) Rows() []Row {
	return append([]Row(nil), r.rows...)
}

// Sorted returns a copy ordered by worksheet id. Rows of the same worksheet
// keep their insertion order.
func (r *Result) Sorted() []Row {
	out := r.Rows()
	SortRows(out)

	return out
}

func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Worksheet < rows[j].Worksheet
	})
}

// Check produces the rows for one artifact.
type Check func(ctx context.Context) ([]Row, error)

// Fold runs checks in order, appending each one's rows. The first error
// stops the fold; no partial result is returned.
func Fold(ctx context.Context, checks ...Check) (*Result, error) {
	out := &Result{}
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := c(ctx)
		if err != nil {
			return nil, err
		}
		out.Append(rows...)
	}

	return out, nil
}
