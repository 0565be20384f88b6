// Package rundetails collects the provenance of one worksheet's pipeline
// run: worksheet id, pipeline version, sequencing experiment, BED files and
// allele-balance threshold.
package rundetails

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/workbook"
	"gopkg.in/guregu/null.v3"
)

// NotAvailable stands in for an optional config value the report lacks.
const NotAvailable = "N/A"

const configSheet = "config_parameters"

var (
	commandLogWorksheet = regexp.MustCompile(`(\d{6})\.commandline_usage_logfile`)
	reportWorksheet     = regexp.MustCompile(`(\d{6})-\d{2}-D\d{2}-\d{5}-\w{2,3}-\w+-\d{3}_S\d+\.v\d\.\d\.\d-results\.xlsx?`)
)

// Detail is one row of the run-details table.
type Detail struct {
	Worksheet       string `csv:"Worksheet"`
	PipelineVersion string `csv:"Pipeline version"`
	ExperimentName  string `csv:"Experiment name"`
	BedFiles        string `csv:"Bed files"`
	ABThreshold     string `csv:"AB threshold"`
}

// Columns are the table headers, in the order Values returns cells.
var Columns = []string{"Worksheet", "Pipeline version", "Experiment name", "Bed files", "AB threshold"}

func (d Detail) Values() []string {
	return []string{d.Worksheet, d.PipelineVersion, d.ExperimentName, d.BedFiles, d.ABThreshold}
}

// Sort orders details by worksheet id.
func Sort(details []Detail) {
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Worksheet < details[j].Worksheet
	})
}

// Worksheet reads the worksheet id from the command log and the primary
// report file names and requires that they agree.
func Worksheet(commandLog, report string) (string, error) {
	logMatch := commandLogWorksheet.FindStringSubmatch(filepath.Base(commandLog))
	if logMatch == nil {
		return "", tshcqc.Configurationf("cannot read a worksheet id from command log %q", commandLog)
	}

	reportMatch := reportWorksheet.FindStringSubmatch(filepath.Base(report))
	if reportMatch == nil {
		return "", tshcqc.Configurationf("cannot read a worksheet id from primary report %q", report)
	}

	if logMatch[1] != reportMatch[1] {
		return "", tshcqc.Mismatchf("the worksheet numbers %s (command log) and %s (primary report) do not match", logMatch[1], reportMatch[1])
	}

	return logMatch[1], nil
}

func experimentPattern(ws string) *regexp.Regexp {
	return regexp.MustCompile(`-s\s+/network/sequenced/MiSeq_data/\w{4,7}/(shire_worksheet_numbered|Validation)/(?:200000-299999)?` +
		regexp.QuoteMeta(ws) + `/(\d{6}_M\d{5}_\d{4}_\d{9}-\w{5})/SampleSheet\.csv`)
}

// ExperimentName finds the sequencer run folder of worksheet ws in the
// sample-sheet argument of a command log.
func ExperimentName(commandLog []byte, ws string) (string, error) {
	m := experimentPattern(ws).FindSubmatch(commandLog)
	if m == nil {
		return "", tshcqc.MissingArtifactf("the experiment name of worksheet %s is not present in the command log", ws)
	}

	return string(m[2]), nil
}

func readCommandLog(p string) ([]byte, error) {
	f, err := tshcqc.OpenMaybeCompressed(p)
	if err != nil {
		return nil, &tshcqc.MissingArtifactError{Msg: "cannot open command log " + p, Err: err}
	}
	defer f.Close()

	return io.ReadAll(f)
}

type config struct {
	pipelineVersion string
	abThreshold     string
	beds            []null.String
}

func readConfig(t workbook.Table) (config, error) {
	var c config

	required := []struct {
		key string
		dst *string
	}{
		{"pipeline version", &c.pipelineVersion},
		{"AB_threshold", &c.abThreshold},
	}
	for _, r := range required {
		v, ok, err := t.Lookup("key", "variable", r.key)
		if err != nil {
			return c, err
		}
		if !ok {
			return c, tshcqc.MissingArtifactf("%s has no %q entry", configSheet, r.key)
		}
		*r.dst = v
	}

	for _, key := range []string{"target_regions", "refined_target_regions", "coverage_regions"} {
		v, ok, err := t.Lookup("key", "variable", key)
		if err != nil {
			return c, err
		}
		c.beds = append(c.beds, null.NewString(v, ok && v != ""))
	}

	return c, nil
}

func bedName(v null.String) string {
	if !v.Valid {
		return NotAvailable
	}

	return path.Base(v.String)
}

// Collect builds the run detail of one worksheet from its command log and
// primary report. The config sheet read is bounded by timeout when it is
// positive.
func Collect(ctx context.Context, commandLog, report string, timeout time.Duration) (Detail, error) {
	ws, err := Worksheet(commandLog, report)
	if err != nil {
		return Detail{}, err
	}

	text, err := readCommandLog(commandLog)
	if err != nil {
		return Detail{}, err
	}
	experiment, err := ExperimentName(text, ws)
	if err != nil {
		return Detail{}, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	t, err := workbook.ReadSheet(ctx, report, configSheet)
	if err != nil {
		return Detail{}, err
	}
	c, err := readConfig(t)
	if err != nil {
		return Detail{}, fmt.Errorf("%s: %w", report, err)
	}

	beds := make([]string, 0, len(c.beds))
	for _, b := range c.beds {
		beds = append(beds, bedName(b))
	}

	return Detail{
		Worksheet:       ws,
		PipelineVersion: c.pipelineVersion,
		ExperimentName:  experiment,
		BedFiles:        strings.Join(beds, ", "),
		ABThreshold:     c.abThreshold,
	}, nil
}
