// Package fixture lays out a synthetic pair of pipeline output directories
// for tests. Every value defaults to a passing run.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carbocation/tshcqc/workbook"
)

// Sheet one worksheet's synthetic outputs.
type Sheet struct {
	ID      string
	Panel   string
	Version string

	Coverage      []float64
	Contamination []float64
	FastqBam      []string
	VCFs          int

	// Optional config keys; an empty value omits the row.
	TargetBed, RefinedBed, CoverageBed string

	// Overrides the worksheet id written into the command log.
	LogWorksheet string
}

// Pair describes both worksheets and the pair-level outputs.
type Pair struct {
	First, Second Sheet

	// NegativeIn names the worksheet ids that carry a negative-control
	// report.
	NegativeIn []string
	Exons      int
	MaxDepths  []float64
	Kinship    []float64
}

func NewSheet(id string) Sheet {
	return Sheet{
		ID:            id,
		Panel:         "ABCD",
		Version:       "v0.5.2",
		Coverage:      []float64{0.99, 0.97, 0.985},
		Contamination: []float64{0.5, 1.2, 0.1},
		FastqBam:      []string{"PASS", "PASS", "PASS"},
		VCFs:          48,
		TargetBed:     "/data/beds/TSHC_target_v1.bed",
		RefinedBed:    "/data/beds/TSHC_refined_v1.bed",
		CoverageBed:   "/data/beds/TSHC_coverage_v1.bed",
	}
}

// NewPair returns a fully passing pair with the negative control on the
// first worksheet.
func NewPair(ws1, ws2 string, exons int) Pair {
	maxDepths := make([]float64, exons)

	return Pair{
		First:      NewSheet(ws1),
		Second:     NewSheet(ws2),
		NegativeIn: []string{ws1},
		Exons:      exons,
		MaxDepths:  maxDepths,
		Kinship:    []float64{0.01, 0.02, 0.2},
	}
}

func (s Sheet) RootName() string {
	return fmt.Sprintf("%s_%s_%s", s.Panel, s.ID, s.Version)
}

// PrimaryName is the file name the pipeline gives the results workbook.
func (s Sheet) PrimaryName() string {
	return fmt.Sprintf("%s-01-D20-12345-AB-%s-001_S1.%s-results.xlsx", s.ID, s.Panel, s.Version)
}

func (s Sheet) NegativeName() string {
	return fmt.Sprintf("%s-48-D00-00000-NegCtrl-%s-048_S48.%s-results.xlsx", s.ID, s.Panel, s.Version)
}

func (s Sheet) FastqBamName() string {
	return fmt.Sprintf("%s-fastq-bam-check.xlsx", s.ID)
}

// Write creates base/<id>/<panel>_<id>_<version>/ for both worksheets and
// returns the two roots.
func (p Pair) Write(base string) (string, string, error) {
	roots := make([]string, 0, 2)
	for _, s := range []Sheet{p.First, p.Second} {
		root := filepath.Join(base, s.ID, s.RootName())
		if err := p.writeSheet(root, s); err != nil {
			return "", "", err
		}
		roots = append(roots, root)
	}

	kin := workbook.Table{Sheet: "Kinship", Header: []string{"ID1", "ID2", "Kinship"}}
	for i, v := range p.Kinship {
		kin.Rows = append(kin.Rows, []string{fmt.Sprintf("S%d", i), fmt.Sprintf("S%d", i+1), format(v)})
	}
	kinPath := filepath.Join(roots[0], fmt.Sprintf("%s_%s.king.xlsx", p.First.ID, p.Second.ID))
	if err := workbook.Write(kinPath, kin); err != nil {
		return "", "", err
	}

	return roots[0], roots[1], nil
}

func (p Pair) writeSheet(root string, s Sheet) error {
	reports := filepath.Join(root, fmt.Sprintf("excel_reports_%s_%s", s.Panel, s.ID))
	vcfs := filepath.Join(root, fmt.Sprintf("vcfs_%s_%s", s.Panel, s.ID))
	for _, dir := range []string{reports, vcfs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := workbook.Write(filepath.Join(reports, s.PrimaryName()), s.hybQC(), s.verifyBamID(), s.config()); err != nil {
		return err
	}

	check := workbook.Table{Sheet: "Check", Header: []string{"Sample", "Result"}}
	for i, v := range s.FastqBam {
		check.Rows = append(check.Rows, []string{fmt.Sprintf("%s-%02d", s.ID, i+1), v})
	}
	if err := workbook.Write(filepath.Join(reports, s.FastqBamName()), check); err != nil {
		return err
	}

	for _, id := range p.NegativeIn {
		if id != s.ID {
			continue
		}
		exons := workbook.Table{Sheet: "Coverage-exon", Header: []string{"Exon", "Mean", "Max"}}
		for i := 0; i < p.Exons; i++ {
			depth := 0.0
			if i < len(p.MaxDepths) {
				depth = p.MaxDepths[i]
			}
			exons.Rows = append(exons.Rows, []string{fmt.Sprintf("exon%d", i+1), "0", format(depth)})
		}
		if err := workbook.Write(filepath.Join(reports, s.NegativeName()), exons); err != nil {
			return err
		}
	}

	for i := 0; i < s.VCFs; i++ {
		name := filepath.Join(vcfs, fmt.Sprintf("%s-%02d.vcf", s.ID, i+1))
		if err := os.WriteFile(name, nil, 0o644); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(root, s.ID+".commandline_usage_logfile"), []byte(s.commandLog()), 0o644)
}

func (s Sheet) hybQC() workbook.Table {
	t := workbook.Table{Sheet: "Hyb-QC", Header: []string{"Sample", "PCT_TARGET_BASES_20X"}}
	for i, v := range s.Coverage {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%s-%02d-D20-%05d", s.ID, i+1, i), format(v)})
	}
	// The no-template control never reaches coverage and is excluded
	t.Rows = append(t.Rows, []string{s.ID + "-48-D00-00000", "0.01"})

	return t
}

func (s Sheet) verifyBamID() workbook.Table {
	t := workbook.Table{Sheet: "VerifyBamId", Header: []string{"SEQ_ID", "%CONT"}}
	for i, v := range s.Contamination {
		t.Rows = append(t.Rows, []string{fmt.Sprintf("%s-%02d", s.ID, i+1), format(v)})
	}

	return t
}

func (s Sheet) config() workbook.Table {
	t := workbook.Table{Sheet: "config_parameters", Header: []string{"key", "variable"}}
	t.Rows = append(t.Rows,
		[]string{"pipeline version", s.Version},
		[]string{"AB_threshold", "0.2"},
	)
	for _, kv := range [][2]string{
		{"target_regions", s.TargetBed},
		{"refined_target_regions", s.RefinedBed},
		{"coverage_regions", s.CoverageBed},
	} {
		if kv[1] != "" {
			t.Rows = append(t.Rows, []string{kv[0], kv[1]})
		}
	}

	return t
}

// ExperimentName is what commandLog embeds for worksheet s.
func (s Sheet) ExperimentName() string {
	return "210315_M01234_0123_000000000-" + "A" + s.ID[2:6]
}

func (s Sheet) commandLog() string {
	ws := s.ID
	if s.LogWorksheet != "" {
		ws = s.LogWorksheet
	}

	return fmt.Sprintf("python TSHC_pipeline.py -i %s \\\n -s \n/network/sequenced/MiSeq_data/%s/shire_worksheet_numbered/%s/%s/SampleSheet.csv \\\n -o /results\n",
		ws, s.Panel, ws, s.ExperimentName())
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
