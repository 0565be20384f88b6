package tshcqc

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	for _, v := range []struct {
		err  error
		code int
	}{
		{nil, ExitOK},
		{errors.New("disk on fire"), ExitFailure},
		{Configurationf("no panel in %q", "/tmp"), ExitBadInput},
		{Mismatchf("100001 != 100002"), ExitBadInput},
		{Shapef("3 tables"), ExitBadInput},
		{MissingArtifactf("no kinship report"), ExitMissingArtifact},
		{fmt.Errorf("resolving pair: %w", MissingArtifactf("no negative control")), ExitMissingArtifact},
		{&MissingArtifactError{Msg: "vcf dir", Err: os.ErrNotExist}, ExitMissingArtifact},
	} {
		assert.Equal(t, v.code, ExitCode(v.err), "%v", v.err)
	}
}

func TestErrorMessagesCarryCause(t *testing.T) {
	err := &MissingArtifactError{Msg: "listing /x", Err: os.ErrNotExist}

	assert.Equal(t, "missing artifact: listing /x: file does not exist", err.Error())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
