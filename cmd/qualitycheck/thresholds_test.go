package main

import (
	"testing"

	"github.com/carbocation/tshcqc"
	"github.com/carbocation/tshcqc/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsFromProfile(t *testing.T) {
	th, err := thresholds("tshc-1419", overrides{}, nil)
	require.NoError(t, err)
	assert.Equal(t, checks.Profiles["tshc-1419"], th)
}

func TestThresholdsOnlyApplySetFlags(t *testing.T) {
	o := overrides{
		contamination:         2.5,
		contaminationBoundary: "pass-at-limit",
		kinship:               0.3,
		exons:                 1419,
	}

	th, err := thresholds(checks.DefaultProfile, o, map[string]bool{"contamination": true, "contamination-boundary": true, "exons": true})
	require.NoError(t, err)
	assert.Equal(t, checks.Ceiling{Limit: 2.5, Boundary: checks.PassAtLimit}, th.Contamination)
	assert.Equal(t, 1419, th.ExpectedNegativeExons)
	assert.Equal(t, checks.Profiles[checks.DefaultProfile].Kinship, th.Kinship)
}

func TestThresholdsRejectUnknownValues(t *testing.T) {
	for _, v := range []struct {
		profile string
		o       overrides
		set     map[string]bool
	}{
		{"tshc-9999", overrides{}, nil},
		{checks.DefaultProfile, overrides{kinshipBoundary: "sometimes"}, map[string]bool{"kinship-boundary": true}},
		{checks.DefaultProfile, overrides{fastqBamPolicy: "majority"}, map[string]bool{"fastq-bam-policy": true}},
	} {
		_, err := thresholds(v.profile, v.o, v.set)
		assert.Equal(t, tshcqc.ExitBadInput, tshcqc.ExitCode(err), "%+v", v)
	}
}
