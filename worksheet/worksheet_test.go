package worksheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoot(t *testing.T) {
	for _, v := range []struct {
		root               string
		panel, id, version string
	}{
		{"/data/100001/TSHC_100001_v0.5.2/", "TSHC", "100001", "v0.5.2"},
		{"/data/100001/TSHC_100001_v.0.5.2", "TSHC", "100001", "v.0.5.2"},
		{"TSHC_200002_v1.0.0", "TSHC", "200002", "v1.0.0"},
		{"/runs/ABCDEFG_123456_v0.0.1/", "ABCDEFG", "123456", "v0.0.1"},
	} {
		ws, err := ParseRoot(v.root)
		require.NoError(t, err, v.root)
		assert.Equal(t, v.panel, ws.Panel, v.root)
		assert.Equal(t, v.id, ws.ID, v.root)
		assert.Equal(t, v.version, ws.Version, v.root)
	}
}

func TestParseRootRejectsUnconventionalPaths(t *testing.T) {
	for _, root := range []string{
		"/data/100001/",
		"/data/TSHC_10001_v0.5.2/",
		"/data/TSHC_100001_0.5.2/",
		"/data/ABC_100001_v0.5.2/",
	} {
		_, err := ParseRoot(root)
		var cfg *tshcqc.ConfigurationError
		assert.True(t, errors.As(err, &cfg), "%s: %v", root, err)
	}
}

func TestNewPairPanelMismatch(t *testing.T) {
	_, err := NewPair("/d/ABCD_100001_v0.5.2/", "/d/WXYZ_100002_v0.5.2/")
	var cfg *tshcqc.ConfigurationError
	require.True(t, errors.As(err, &cfg), "%v", err)
	assert.Contains(t, err.Error(), "ABCD")
	assert.Contains(t, err.Error(), "WXYZ")
}

func TestClassify(t *testing.T) {
	l := classify([]string{
		"100001-01-D20-12345-AB-TSHC-001_S1.v0.5.2-results.xlsx",
		"100001-48-D00-00000-NegCtrl-TSHC-048_S48.v0.5.2-results.xlsx",
		"100001-fastq-bam-check.xlsx",
	})

	assert.Equal(t, []string{"100001-01-D20-12345-AB-TSHC-001_S1.v0.5.2-results.xlsx"}, l.primary)
	assert.Equal(t, []string{"100001-48-D00-00000-NegCtrl-TSHC-048_S48.v0.5.2-results.xlsx"}, l.negative)
	assert.Equal(t, []string{"100001-fastq-bam-check.xlsx"}, l.fastqBam)
}

func writePair(t *testing.T, p fixture.Pair) Pair {
	t.Helper()

	root1, root2, err := p.Write(t.TempDir())
	require.NoError(t, err)

	pair, err := NewPair(root1, root2)
	require.NoError(t, err)

	return pair
}

func TestResolve(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 10)
	pair := writePair(t, fx)

	a, err := Resolve(pair)
	require.NoError(t, err)

	assert.Equal(t, "100001", a.NegativeOwner)
	assert.Equal(t, fx.First.NegativeName(), filepath.Base(a.Negative))
	assert.Equal(t, fx.First.PrimaryName(), filepath.Base(a.First.Primary))
	assert.Equal(t, fx.Second.PrimaryName(), filepath.Base(a.Second.Primary))
	assert.Equal(t, fx.Second.FastqBamName(), filepath.Base(a.Second.FastqBam))
	assert.Equal(t, filepath.Join(pair.First.Root, "vcfs_ABCD_100001"), a.First.VCFDir)
	assert.Equal(t, filepath.Join(pair.Second.Root, "100002.commandline_usage_logfile"), a.Second.CommandLog)
	assert.Equal(t, filepath.Join(pair.First.Root, "100001_100002.king.xlsx"), a.Kinship)
}

func TestResolveNegativeOnSecondWorksheet(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 10)
	fx.NegativeIn = []string{"100002"}

	a, err := Resolve(writePair(t, fx))
	require.NoError(t, err)
	assert.Equal(t, "100002", a.NegativeOwner)
}

func TestResolveNegativeCardinality(t *testing.T) {
	for _, negIn := range [][]string{nil, {"100001", "100002"}} {
		fx := fixture.NewPair("100001", "100002", 10)
		fx.NegativeIn = negIn

		_, err := Resolve(writePair(t, fx))
		var missing *tshcqc.MissingArtifactError
		assert.True(t, errors.As(err, &missing), "%v: %v", negIn, err)
	}
}

func TestResolveAmbiguousPrimary(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 10)
	pair := writePair(t, fx)

	extra := filepath.Join(ExcelReportsDir(pair.Second), "100002-02-D20-99999-AB-ABCD-002_S2.v0.5.2-results.xlsx")
	require.NoError(t, os.WriteFile(extra, nil, 0o644))

	// Editor lock files are not reports
	lock := filepath.Join(ExcelReportsDir(pair.First), "~$"+fx.First.PrimaryName())
	require.NoError(t, os.WriteFile(lock, nil, 0o644))

	_, err := Resolve(pair)
	var missing *tshcqc.MissingArtifactError
	require.True(t, errors.As(err, &missing), "%v", err)
	assert.Contains(t, err.Error(), "100002")
}

func TestResolveMissingReportsDir(t *testing.T) {
	fx := fixture.NewPair("100001", "100002", 10)
	pair := writePair(t, fx)
	require.NoError(t, os.RemoveAll(ExcelReportsDir(pair.Second)))

	_, err := Resolve(pair)
	assert.Equal(t, tshcqc.ExitMissingArtifact, tshcqc.ExitCode(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
