package checks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/workbook"
	"github.com/carbocation/tshcqc/worksheet"
	"github.com/montanaflynn/stats"
)

// Runner binds checks to pipeline artifacts.
type Runner struct {
	Thresholds Thresholds

	// ReadTimeout bounds each spreadsheet read. Zero means no bound beyond
	// the caller's context.
	ReadTimeout time.Duration

	// InspectVCFHeaders logs the samples of every VCF the count check sees.
	InspectVCFHeaders bool
}

func (r Runner) readSheets(ctx context.Context, path string, sheets ...string) ([]workbook.Table, error) {
	if r.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.ReadTimeout)
		defer cancel()
	}

	wb, err := workbook.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	out := make([]workbook.Table, 0, len(sheets))
	for _, name := range sheets {
		t, err := wb.Sheet(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

// SampleReport checks contamination (VerifyBamId) and 20x coverage (Hyb-QC)
// in a worksheet's primary report.
func (r Runner) SampleReport(path string) Check {
	return func(ctx context.Context) ([]Row, error) {
		ws, err := ReportWorksheet(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Checking coverage and contamination of worksheet %s in %s\n", ws, path)

		tables, err := r.readSheets(ctx, path, "Hyb-QC", "VerifyBamId")
		if err != nil {
			return nil, err
		}
		hybQC, verifyBamID := tables[0], tables[1]

		samples, err := hybQC.Where("Sample", func(s string) bool {
			return !strings.Contains(s, r.Thresholds.ControlSample)
		})
		if err != nil {
			return nil, err
		}
		coverage, err := samples.Floats("PCT_TARGET_BASES_20X")
		if err != nil {
			return nil, err
		}

		contamination, err := verifyBamID.Floats("%CONT")
		if err != nil {
			return nil, err
		}

		return []Row{
			contaminationRow(ws, r.Thresholds, EvaluateContamination(contamination, r.Thresholds.Contamination)),
			coverageRow(ws, r.Thresholds, EvaluateCoverage(coverage, r.Thresholds.MinCoverage20x)),
		}, nil
	}
}

// NegativeControl checks the exon count and residual read depth of the
// pair's negative-control report.
func (r Runner) NegativeControl(path string) Check {
	return func(ctx context.Context) ([]Row, error) {
		ws, err := ReportWorksheet(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Checking negative control of worksheet %s in %s\n", ws, path)

		tables, err := r.readSheets(ctx, path, "Coverage-exon")
		if err != nil {
			return nil, err
		}
		exons := tables[0]

		maxDepths, err := exons.Floats("Max")
		if err != nil {
			return nil, err
		}

		return []Row{
			negativeExonsRow(ws, r.Thresholds, EvaluateExonCount(exons.Len(), r.Thresholds.ExpectedNegativeExons)),
			negativeDepthRow(ws, r.Thresholds, EvaluateNegativeDepth(maxDepths, r.Thresholds.NegativeMaxDepth)),
		}, nil
	}
}

// Kinship checks the pair's kinship report. Its single row is keyed by both
// worksheet ids.
func (r Runner) Kinship(path string) Check {
	return func(ctx context.Context) ([]Row, error) {
		pair, err := KinshipPair(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Checking kinship of worksheet pair %s in %s\n", pair, path)

		tables, err := r.readSheets(ctx, path, "Kinship")
		if err != nil {
			return nil, err
		}

		values, err := tables[0].Floats("Kinship")
		if err != nil {
			return nil, err
		}

		status, err := EvaluateKinship(values, r.Thresholds.Kinship)
		if errors.Is(err, stats.ErrEmptyInput) {
			return nil, tshcqc.MissingArtifactf("kinship report %s has no kinship values", path)
		} else if err != nil {
			return nil, err
		}

		return []Row{kinshipRow(pair, r.Thresholds, status)}, nil
	}
}

// VCFCount checks that the VCF directory holds one file per sample.
func (r Runner) VCFCount(dir string) Check {
	return func(ctx context.Context) ([]Row, error) {
		ws, err := VCFDirWorksheet(dir)
		if err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &tshcqc.MissingArtifactError{Msg: fmt.Sprintf("cannot list VCF directory of worksheet %s", ws), Err: err}
		}
		log.Printf("Worksheet %s has %d entries in %s\n", ws, len(entries), dir)

		if r.InspectVCFHeaders {
			inspectVCFs(dir, entries)
		}

		return []Row{vcfCountRow(ws, r.Thresholds, EvaluateVCFCount(len(entries), r.Thresholds.ExpectedVCFs))}, nil
	}
}

// FastqBam summarizes the per-sample read-count comparison.
func (r Runner) FastqBam(path string) Check {
	return func(ctx context.Context) ([]Row, error) {
		ws, err := ReportWorksheet(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Checking FASTQ/BAM read counts of worksheet %s in %s\n", ws, path)

		tables, err := r.readSheets(ctx, path, "Check")
		if err != nil {
			return nil, err
		}

		results, err := tables[0].Column("Result")
		if err != nil {
			return nil, err
		}

		return []Row{fastqBamRow(ws, EvaluateFastqBam(results, r.Thresholds.FastqBam))}, nil
	}
}

// Plan lists every check of a worksheet pair in report order: each
// worksheet's sample report, VCF directory and fastq/bam report, then the
// negative control and the kinship report.
func (r Runner) Plan(a worksheet.Artifacts) []Check {
	out := make([]Check, 0, 8)
	for _, reports := range a.Both() {
		out = append(out,
			r.SampleReport(reports.Primary),
			r.VCFCount(reports.VCFDir),
			r.FastqBam(reports.FastqBam),
		)
	}

	return append(out,
		r.NegativeControl(a.Negative),
		r.Kinship(a.Kinship),
	)
}
