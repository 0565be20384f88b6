package qcrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/carbocation/tshcqc/internal/fixture"
	"github.com/carbocation/tshcqc/report"
	"github.com/carbocation/tshcqc/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config(t *testing.T, root1, root2 string, exons int) Config {
	th, err := checks.Profile(checks.DefaultProfile)
	require.NoError(t, err)
	th.ExpectedNegativeExons = exons

	return Config{
		Worksheet1:  root1,
		Worksheet2:  root2,
		OutputDir:   t.TempDir(),
		Thresholds:  th,
		ProfileName: checks.DefaultProfile,
		ReadTimeout: time.Minute,
	}
}

func statuses(rows []checks.Row) map[string]checks.Status {
	out := make(map[string]checks.Status)
	for _, r := range rows {
		out[r.Worksheet+"/"+r.Check] = r.Result
	}

	return out
}

func TestRunNegativeOnFirstWorksheet(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 12)
	root1, root2, err := fx.Write(t.TempDir())
	require.NoError(t, err)
	cfg := config(t, root1, root2, 12)

	o, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "100001_100002_quality_checks.html"), o.Path)
	assert.Equal(t, 0, o.Failed)
	require.Len(t, o.Report.Rows, checks.ChecksPerPair)

	got := statuses(o.Report.Rows)
	assert.Equal(t, checks.Pass, got["100001/"+checks.NegativeExonsCheck])
	assert.Equal(t, checks.Pass, got["100001/"+checks.NegativeDepthCheck])

	require.Len(t, o.Report.Details, 2)
	assert.Equal(t, "100001", o.Report.Details[0].Worksheet)
	assert.Equal(t, fx.Second.ExperimentName(), o.Report.Details[1].ExperimentName)

	// The written report reads back as the same table
	rows, err := report.ReadChecks(o.Path)
	require.NoError(t, err)
	assert.Equal(t, o.Report.Rows, rows)
}

func TestRunOnlyTheShortVCFDirectoryFails(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 12)
	fx.Second.VCFs = 47
	root1, root2, err := fx.Write(t.TempDir())
	require.NoError(t, err)

	o, err := Run(context.Background(), config(t, root1, root2, 12))
	require.NoError(t, err)
	assert.Equal(t, 1, o.Failed)

	for _, r := range o.Report.Rows {
		if r.Worksheet == "100002" && r.Check == checks.VCFCountCheck {
			assert.Equal(t, checks.Fail, r.Result)
			continue
		}
		assert.Equal(t, checks.Pass, r.Result, "%+v", r)
	}
}

func TestRunPanelMismatchWritesNothing(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 12)
	fx.Second.Panel = "WXYZ"
	root1, root2, err := fx.Write(t.TempDir())
	require.NoError(t, err)
	cfg := config(t, root1, root2, 12)

	_, err = Run(context.Background(), cfg)
	var conf *tshcqc.ConfigurationError
	require.ErrorAs(t, err, &conf)
	assert.Contains(t, err.Error(), "ABCD")
	assert.Contains(t, err.Error(), "WXYZ")

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCommandLogOfOtherWorksheetWritesNothing(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 12)
	fx.First.LogWorksheet = "100009"
	root1, root2, err := fx.Write(t.TempDir())
	require.NoError(t, err)
	cfg := config(t, root1, root2, 12)

	_, err = Run(context.Background(), cfg)
	assert.Equal(t, tshcqc.ExitMissingArtifact, tshcqc.ExitCode(err), "%v", err)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunMissingOutputDirectory(t *testing.T) {
	root1, root2, err := fixture.NewPair("100001", "100002", 12).Write(t.TempDir())
	require.NoError(t, err)
	cfg := config(t, root1, root2, 12)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "absent")

	_, err = Run(context.Background(), cfg)
	assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err))
}

func TestRunBatch(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()

	var cfgs []Config
	for _, ids := range [][2]string{{"100001", "100002"}, {"100003", "100004"}, {"100005", "100006"}} {
		root1, root2, err := fixture.NewPair(ids[0], ids[1], 12).Write(base)
		require.NoError(t, err)
		cfg := config(t, root1, root2, 12)
		cfg.OutputDir = out
		cfgs = append(cfgs, cfg)
	}

	outcomes, err := RunBatch(context.Background(), cfgs, 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, filepath.Join(out, "100003_100004_quality_checks.html"), outcomes[1].Path)

	cfgs[2].Worksheet2 = filepath.Join(base, "100099")
	_, err = RunBatch(context.Background(), cfgs, 2)
	assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err))
}

func TestReadPairing(t *testing.T) {
	dir := t.TempDir()
	expected := []PairEntry{{"000123", "100002"}, {"100003", "100004"}}

	xlsx := filepath.Join(dir, "pairing.xlsx")
	require.NoError(t, workbook.Write(xlsx, workbook.Table{
		Sheet:  PairingSheet,
		Header: []string{"Worksheet_1", "Worksheet_2"},
		Rows:   [][]string{{"123", "100002"}, {"100003", "100004"}},
	}))
	got, err := ReadPairing(context.Background(), xlsx)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	for name, content := range map[string]string{
		"pairing.tsv": "Worksheet_1\tWorksheet_2\n123\t100002\n100003\t100004\n",
		"pairing.csv": "Worksheet_1,Worksheet_2\n123,100002\n100003,100004\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		got, err := ReadPairing(context.Background(), path)
		require.NoError(t, err, name)
		assert.Equal(t, expected, got, name)
	}

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Worksheet_1,Worksheet_2\nABC,100002\nX,Y\n"), 0o644))
	_, err = ReadPairing(context.Background(), bad)
	assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err))
}

func TestLocateRootAndConfigs(t *testing.T) {
	base := t.TempDir()
	root1, root2, err := fixture.NewPair("100001", "100002", 12).Write(base)
	require.NoError(t, err)

	got, err := LocateRoot(base, "100001")
	require.NoError(t, err)
	assert.Equal(t, root1, got)

	_, err = LocateRoot(base, "100003")
	assert.Equal(t, tshcqc.ExitMissingArtifact, tshcqc.ExitCode(err))

	cfgs, err := Configs([]PairEntry{{"100001", "100002"}, {"100001", "100007"}}, base, Config{OutputDir: "out"})
	require.NoError(t, err)
	require.Len(t, cfgs, 1)
	assert.Equal(t, root1, cfgs[0].Worksheet1)
	assert.Equal(t, root2, cfgs[0].Worksheet2)
	assert.Equal(t, "out", cfgs[0].OutputDir)
}
