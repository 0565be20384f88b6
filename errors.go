package tshcqc

import (
	"errors"
	"fmt"
)

// Exit statuses used by the binaries in cmd/.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitBadInput        = 2
	ExitMissingArtifact = 3
)

// ConfigurationError reports a path that does not follow the pipeline's
// naming convention, a panel mismatch between paired worksheets, or input
// values that cannot be interpreted.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string { return joinCause("configuration error", e.Msg, e.Err) }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// MissingArtifactError reports an expected report, sheet, column, file or
// directory that is absent, or a lookup that matched more than one candidate
// where exactly one is required.
type MissingArtifactError struct {
	Msg string
	Err error
}

func (e *MissingArtifactError) Error() string { return joinCause("missing artifact", e.Msg, e.Err) }
func (e *MissingArtifactError) Unwrap() error { return e.Err }

// MismatchError reports two identifiers that should agree but don't, e.g.
// the worksheet named by a command log and by its report.
type MismatchError struct {
	Msg string
	Err error
}

func (e *MismatchError) Error() string { return joinCause("mismatch", e.Msg, e.Err) }
func (e *MismatchError) Unwrap() error { return e.Err }

// ShapeError reports a previously rendered report whose tables do not have
// the expected fixed shape.
type ShapeError struct {
	Msg string
	Err error
}

func (e *ShapeError) Error() string { return joinCause("unexpected report shape", e.Msg, e.Err) }
func (e *ShapeError) Unwrap() error { return e.Err }

func Configurationf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

func MissingArtifactf(format string, args ...interface{}) error {
	return &MissingArtifactError{Msg: fmt.Sprintf(format, args...)}
}

func Mismatchf(format string, args ...interface{}) error {
	return &MismatchError{Msg: fmt.Sprintf(format, args...)}
}

func Shapef(format string, args ...interface{}) error {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by any package in this module to the
// process exit status the binaries use.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfg      *ConfigurationError
		missing  *MissingArtifactError
		mismatch *MismatchError
		shape    *ShapeError
	)

	switch {
	case errors.As(err, &missing):
		return ExitMissingArtifact
	case errors.As(err, &cfg), errors.As(err, &mismatch), errors.As(err, &shape):
		return ExitBadInput
	}

	return ExitFailure
}

func joinCause(kind, msg string, cause error) string {
	if cause == nil {
		return fmt.Sprintf("%s: %s", kind, msg)
	}

	return fmt.Sprintf("%s: %s: %v", kind, msg, cause)
}
