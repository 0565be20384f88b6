package main

import (
	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
)

type overrides struct {
	contamination         float64
	contaminationBoundary string
	kinship               float64
	kinshipBoundary       string
	exons                 int
	vcfs                  int
	minCoverage           float64
	fastqBamPolicy        string
}

// thresholds starts from the named profile and applies every override
// whose flag was given on the command line.
func thresholds(profile string, o overrides, set map[string]bool) (checks.Thresholds, error) {
	th, err := checks.Profile(profile)
	if err != nil {
		return th, &tshcqc.ConfigurationError{Msg: "-profile", Err: err}
	}

	if set["contamination"] {
		th.Contamination.Limit = o.contamination
	}
	if set["kinship"] {
		th.Kinship.Limit = o.kinship
	}
	if set["exons"] {
		th.ExpectedNegativeExons = o.exons
	}
	if set["vcfs"] {
		th.ExpectedVCFs = o.vcfs
	}
	if set["min-coverage"] {
		th.MinCoverage20x = o.minCoverage
	}

	if set["contamination-boundary"] {
		if th.Contamination.Boundary, err = checks.ParseBoundary(o.contaminationBoundary); err != nil {
			return th, &tshcqc.ConfigurationError{Msg: "-contamination-boundary", Err: err}
		}
	}
	if set["kinship-boundary"] {
		if th.Kinship.Boundary, err = checks.ParseBoundary(o.kinshipBoundary); err != nil {
			return th, &tshcqc.ConfigurationError{Msg: "-kinship-boundary", Err: err}
		}
	}
	if set["fastq-bam-policy"] {
		if th.FastqBam, err = checks.ParseFastqBamPolicy(o.fastqBamPolicy); err != nil {
			return th, &tshcqc.ConfigurationError{Msg: "-fastq-bam-policy", Err: err}
		}
	}

	return th, nil
}
