package checks

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
)

const (
	CoverageCheck      = "20x coverage check"
	ContaminationCheck = "VerifyBamId check"
	NegativeExonsCheck = "Number of exons in negative sample"
	NegativeDepthCheck = "Contamination of negative sample"
	KinshipCheck       = "Kinship check"
	VCFCountCheck      = "VCF file count check"
	FastqBamCheck      = "FASTQ-BAM check"

	fastqBamDescription = "A check to determine that the expected number of reads are present in each FASTQ and BAM file"
)

// ChecksPerPair is the number of result rows one pair produces: four per
// worksheet, two for the negative control and one kinship row.
const ChecksPerPair = 11

// EvaluateCoverage fails when any sample is below the minimum fraction of
// target bases at 20x.
func EvaluateCoverage(values []float64, minimum float64) Status {
	if len(values) == 0 {
		return Pass
	}

	lowest, _ := stats.Min(values)

	return statusOf(lowest < minimum)
}

// EvaluateContamination fails when any sample exceeds the ceiling.
func EvaluateContamination(values []float64, c Ceiling) Status {
	if len(values) == 0 {
		return Pass
	}

	highest, _ := stats.Max(values)

	return statusOf(c.Exceeded(highest))
}

func EvaluateExonCount(n, expected int) Status {
	return statusOf(n != expected)
}

// EvaluateNegativeDepth fails when any distinct per-exon max depth of the
// negative control exceeds the ceiling.
func EvaluateNegativeDepth(maxDepths []float64, c Ceiling) Status {
	seen := make(map[float64]struct{}, len(maxDepths))
	for _, d := range maxDepths {
		seen[d] = struct{}{}
	}

	for d := range seen {
		if c.Exceeded(d) {
			return Fail
		}
	}

	return Pass
}

// EvaluateKinship fails when the largest kinship coefficient exceeds the
// ceiling. A kinship report without values is an error, not a pass.
func EvaluateKinship(values []float64, c Ceiling) (Status, error) {
	highest, err := stats.Max(values)
	if err != nil {
		return Fail, err
	}

	return statusOf(c.Exceeded(highest)), nil
}

func EvaluateVCFCount(n, expected int) Status {
	return statusOf(n != expected)
}

func EvaluateFastqBam(results []string, p FastqBamPolicy) Status {
	distinct := make(map[string]struct{})
	for _, r := range results {
		distinct[strings.TrimSpace(r)] = struct{}{}
	}

	if p == FailOnMixed {
		_, onlyPass := distinct[string(Pass)]
		return statusOf(len(distinct) > 1 || (len(distinct) == 1 && !onlyPass))
	}

	_, failed := distinct[string(Fail)]

	return statusOf(failed)
}

func coverageRow(ws string, t Thresholds, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       CoverageCheck,
		Description: fmt.Sprintf("A check to determine if %.4g%% of all target bases in each sample are covered at 20X or greater", t.MinCoverage20x*100),
		Result:      s,
	}
}

func contaminationRow(ws string, t Thresholds, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       ContaminationCheck,
		Description: fmt.Sprintf("A check to determine if all samples in a worksheet have contamination %s%%", t.Contamination.Acceptable()),
		Result:      s,
	}
}

func negativeExonsRow(ws string, t Thresholds, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       NegativeExonsCheck,
		Description: fmt.Sprintf("A check to determine if %d exons are present in the negative control (Coverage-exon tab)", t.ExpectedNegativeExons),
		Result:      s,
	}
}

func negativeDepthRow(ws string, t Thresholds, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       NegativeDepthCheck,
		Description: fmt.Sprintf("A check to determine if the max read depth of every exon in the negative sample is %s", t.NegativeMaxDepth.Acceptable()),
		Result:      s,
	}
}

func kinshipRow(pair string, t Thresholds, s Status) Row {
	rule := fmt.Sprintf("of %g or higher", t.Kinship.Limit)
	if t.Kinship.Boundary == PassAtLimit {
		rule = fmt.Sprintf("higher than %g", t.Kinship.Limit)
	}

	return Row{
		Worksheet:   pair,
		Check:       KinshipCheck,
		Description: "A check to determine if any sample in the worksheet pair has a kinship value " + rule,
		Result:      s,
	}
}

func vcfCountRow(ws string, t Thresholds, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       VCFCountCheck,
		Description: fmt.Sprintf("A check to determine if %d VCFs have been generated", t.ExpectedVCFs),
		Result:      s,
	}
}

func fastqBamRow(ws string, s Status) Row {
	return Row{
		Worksheet:   ws,
		Check:       FastqBamCheck,
		Description: fastqBamDescription,
		Result:      s,
	}
}
