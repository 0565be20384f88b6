package summary

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/report"
	"github.com/carbocation/tshcqc/rundetails"
	"github.com/carbocation/tshcqc/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairRows(ws1, ws2 string, failAt int) []checks.Row {
	var out []checks.Row
	for _, ws := range []string{ws1, ws2} {
		for _, c := range []string{checks.ContaminationCheck, checks.CoverageCheck, checks.VCFCountCheck, checks.FastqBamCheck} {
			out = append(out, checks.Row{Worksheet: ws, Check: c, Result: checks.Pass})
		}
	}
	out = append(out,
		checks.Row{Worksheet: ws1, Check: checks.NegativeExonsCheck, Result: checks.Pass},
		checks.Row{Worksheet: ws1, Check: checks.NegativeDepthCheck, Result: checks.Pass},
		checks.Row{Worksheet: ws1 + "_" + ws2, Check: checks.KinshipCheck, Result: checks.Pass},
	)
	if failAt >= 0 {
		out[failAt].Result = checks.Fail
	}

	return out
}

func writeReport(t *testing.T, dir, ws1, ws2 string, rows []checks.Row) {
	t.Helper()

	r := report.New("ABCD", []rundetails.Detail{{Worksheet: ws1}, {Worksheet: ws2}}, rows)
	_, err := report.WriteFiles(dir, r)
	require.NoError(t, err)
}

func TestAggregate(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "100003", "100004", pairRows("100003", "100004", 4))
	writeReport(t, dir, "100001", "100002", pairRows("100001", "100002", -1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	tab, err := Aggregate(dir, Options{})
	require.NoError(t, err)
	require.Len(t, tab.Rows, 2)

	assert.Equal(t, 1, tab.Rows[0].TestCase)
	assert.Equal(t, "100001_100002", tab.Rows[0].Pair)
	assert.Len(t, tab.Rows[0].Checks, checks.ChecksPerPair)
	for _, c := range tab.Rows[0].Checks {
		assert.Equal(t, checks.Pass, c)
	}

	assert.Equal(t, 2, tab.Rows[1].TestCase)
	assert.Equal(t, "100003_100004", tab.Rows[1].Pair)
	// Reports are sorted by worksheet, so 100003's rows come first
	failed := 0
	for _, c := range tab.Rows[1].Checks {
		if c == checks.Fail {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestAggregateShapePolicies(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "100001", "100002", pairRows("100001", "100002", -1))
	writeReport(t, dir, "100003", "100004", pairRows("100003", "100004", -1)[:10])
	writeReport(t, dir, "100005", "100006", pairRows("100005", "100006", -1))

	_, err := Aggregate(dir, Options{Policy: Abort})
	var shape *tshcqc.ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err))

	tab, err := Aggregate(dir, Options{Policy: Skip})
	require.NoError(t, err)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, []string{"100003_100004_quality_checks.html"}, tab.Skipped)
	assert.Equal(t, "100005_100006", tab.Rows[1].Pair)
	assert.Equal(t, 2, tab.Rows[1].TestCase)
}

func TestAggregateBadIntermediate(t *testing.T) {
	tests := []struct {
		name string
		tsv  string
	}{
		{"unknown result", "Worksheet\tCheck\tDescription\tResult\n100003\tContamination\t\tMAYBE\n"},
		{"ragged row", "Worksheet\tCheck\tDescription\tResult\n100003\tContamination\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeReport(t, dir, "100001", "100002", pairRows("100001", "100002", -1))
			writeReport(t, dir, "100003", "100004", pairRows("100003", "100004", -1))
			tsv := filepath.Join(dir, "100003_100004"+report.TSVSuffix)
			require.NoError(t, os.WriteFile(tsv, []byte(tt.tsv), 0o644))

			_, err := Aggregate(dir, Options{Policy: Abort})
			var shape *tshcqc.ShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err))

			tab, err := Aggregate(dir, Options{Policy: Skip})
			require.NoError(t, err)
			require.Len(t, tab.Rows, 1)
			assert.Equal(t, "100001_100002", tab.Rows[0].Pair)
			assert.Equal(t, []string{"100003_100004_quality_checks.html"}, tab.Skipped)
		})
	}
}

func TestSummarizeNeedsOnePairRow(t *testing.T) {
	rows := pairRows("100001", "100002", -1)
	rows[0].Worksheet = "100001_100002"

	_, err := Summarize("x", rows)
	var shape *tshcqc.ShapeError
	assert.ErrorAs(t, err, &shape)

	rows = pairRows("100001", "100002", -1)
	rows[10].Worksheet = "100001"
	_, err = Summarize("x", rows)
	assert.ErrorAs(t, err, &shape)
}

func TestAggregateLegacyReport(t *testing.T) {
	dir := t.TempDir()

	var b bytes.Buffer
	b.WriteString("<h1>ABCD Quality Report<h1/><h3>Run details<h3/><table><tr><th>Worksheet</th></tr><tr><td>100001</td></tr></table>")
	b.WriteString("<h3>Checks<h3/><table><thead><tr><th>Worksheet</th><th>Check</th><th>Description</th><th>Result</th></tr></thead><tbody>")
	for _, r := range pairRows("100001", "100002", 2) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td></td><td>%s</td></tr>", r.Worksheet, r.Check, r.Result)
	}
	b.WriteString("</tbody></table>")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "100001_100002_quality_checks.html"), b.Bytes(), 0o644))

	tab, err := Aggregate(dir, Options{})
	require.NoError(t, err)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "100001_100002", tab.Rows[0].Pair)
	assert.Equal(t, checks.Fail, tab.Rows[0].Checks[2])
}

func TestAggregateMissingDirectory(t *testing.T) {
	_, err := Aggregate(filepath.Join(t.TempDir(), "absent"), Options{})
	assert.Equal(t, tshcqc.ExitMissingArtifact, tshcqc.ExitCode(err))
}

func TestRenderAndXLSX(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "100001", "100002", pairRows("100001", "100002", 0))
	tab, err := Aggregate(dir, Options{})
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, Render(&b, tab, "qc.css"))
	assert.Contains(t, b.String(), `<link rel="stylesheet" href="qc.css">`)
	assert.Contains(t, b.String(), "<h1>Test Run Summary</h1>")
	assert.Contains(t, b.String(), "<th>Check 11</th>")
	assert.Contains(t, b.String(), `<td class="fail">FAIL</td>`)

	b.Reset()
	require.NoError(t, Render(&b, tab, ""))
	assert.NotContains(t, b.String(), "stylesheet")

	path := filepath.Join(dir, XLSXName)
	require.NoError(t, WriteXLSX(path, tab))
	sheet, err := workbook.ReadSheet(context.Background(), path, "Summary")
	require.NoError(t, err)
	assert.Equal(t, Columns(), sheet.Header)
	require.Equal(t, 1, sheet.Len())
	assert.Equal(t, tab.Rows[0].Values(), sheet.Rows[0])
}

func TestParseShapePolicy(t *testing.T) {
	for s, expected := range map[string]ShapePolicy{"abort": Abort, "skip": Skip} {
		p, err := ParseShapePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, expected, p)
		assert.Equal(t, s, p.String())
	}

	_, err := ParseShapePolicy("ignore")
	assert.Error(t, err)
}
