package checks

import (
	"fmt"
	"sort"
	"strings"
)

// Boundary says what happens to a value that lands exactly on a ceiling.
type Boundary int

const (
	// FailAtLimit fails value >= limit.
	FailAtLimit Boundary = iota
	// PassAtLimit fails only value > limit.
	PassAtLimit
)

func (b Boundary) String() string {
	if b == PassAtLimit {
		return "pass-at-limit"
	}

	return "fail-at-limit"
}

func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "fail-at-limit", ">=":
		return FailAtLimit, nil
	case "pass-at-limit", ">":
		return PassAtLimit, nil
	}

	return FailAtLimit, fmt.Errorf("unknown boundary %q (want fail-at-limit or pass-at-limit)", s)
}

// Ceiling is an upper limit on a QC metric.
type Ceiling struct {
	Limit    float64
	Boundary Boundary
}

func (c Ceiling) Exceeded(v float64) bool {
	if c.Boundary == PassAtLimit {
		return v > c.Limit
	}

	return v >= c.Limit
}

// Acceptable renders the passing range, e.g. "< 3" or "<= 3".
func (c Ceiling) Acceptable() string {
	if c.Boundary == PassAtLimit {
		return fmt.Sprintf("<= %g", c.Limit)
	}

	return fmt.Sprintf("< %g", c.Limit)
}

// FastqBamPolicy selects how the per-sample read-count comparison results
// are summarized.
type FastqBamPolicy int

const (
	// FailOnLiteral fails when any sample's result is the literal "FAIL".
	FailOnLiteral FastqBamPolicy = iota
	// FailOnMixed fails when the results are not uniformly "PASS": more
	// than one distinct value, or a single value other than PASS.
	FailOnMixed
)

func (p FastqBamPolicy) String() string {
	if p == FailOnMixed {
		return "uniform"
	}

	return "literal"
}

func ParseFastqBamPolicy(s string) (FastqBamPolicy, error) {
	switch s {
	case "literal":
		return FailOnLiteral, nil
	case "uniform":
		return FailOnMixed, nil
	}

	return FailOnLiteral, fmt.Errorf("unknown fastq-bam policy %q (want literal or uniform)", s)
}

// Thresholds holds every constant a QC certification depends on.
type Thresholds struct {
	// MinCoverage20x is the lowest acceptable fraction of target bases
	// covered at 20x. Equal passes.
	MinCoverage20x float64

	// ControlSample marks the no-template control in Hyb-QC sample names.
	ControlSample string

	// Contamination caps VerifyBamId %CONT.
	Contamination Ceiling

	// ExpectedNegativeExons is the exact Coverage-exon row count of the
	// negative control.
	ExpectedNegativeExons int

	// NegativeMaxDepth caps per-exon max read depth in the negative
	// control.
	NegativeMaxDepth Ceiling

	// Kinship caps the largest kinship coefficient in the pair.
	Kinship Ceiling

	// ExpectedVCFs is the exact number of files in each VCF directory.
	ExpectedVCFs int

	FastqBam FastqBamPolicy
}

// Profiles are the two certified configurations of the script in use. They
// differ in the contamination and kinship boundaries, the negative-control
// exon count, and the fastq/bam summary.
var Profiles = map[string]Thresholds{
	"tshc-1204": {
		MinCoverage20x:        0.96,
		ControlSample:         "D00-00000",
		Contamination:         Ceiling{Limit: 3, Boundary: FailAtLimit},
		ExpectedNegativeExons: 1204,
		NegativeMaxDepth:      Ceiling{Limit: 1, Boundary: FailAtLimit},
		Kinship:               Ceiling{Limit: 0.48, Boundary: FailAtLimit},
		ExpectedVCFs:          48,
		FastqBam:              FailOnLiteral,
	},
	"tshc-1419": {
		MinCoverage20x:        0.96,
		ControlSample:         "D00-00000",
		Contamination:         Ceiling{Limit: 3, Boundary: PassAtLimit},
		ExpectedNegativeExons: 1419,
		NegativeMaxDepth:      Ceiling{Limit: 1, Boundary: FailAtLimit},
		Kinship:               Ceiling{Limit: 0.48, Boundary: PassAtLimit},
		ExpectedVCFs:          48,
		FastqBam:              FailOnMixed,
	},
}

// DefaultProfile matches the script currently run by the laboratory.
const DefaultProfile = "tshc-1204"

func Profile(name string) (Thresholds, error) {
	t, ok := Profiles[name]
	if !ok {
		return Thresholds{}, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(ProfileNames(), ", "))
	}

	return t, nil
}

func ProfileNames() []string {
	out := make([]string, 0, len(Profiles))
	for k := range Profiles {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Describe lists the effective thresholds for the report header.
func (t Thresholds) Describe() string {
	return fmt.Sprintf("20x coverage >= %g; contamination %s%%; negative-control exons == %d; negative-control max depth %s; kinship %s; VCFs == %d; FASTQ-BAM policy %s",
		t.MinCoverage20x, t.Contamination.Acceptable(), t.ExpectedNegativeExons, t.NegativeMaxDepth.Acceptable(), t.Kinship.Acceptable(), t.ExpectedVCFs, t.FastqBam)
}
