// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors forming the pipeline failure taxonomy. Stages wrap these
// with context via fmt.Errorf("...: %w", ...); callers test with errors.Is.
var (
	// ErrUnsupportedFormat means the input's extension matched no known
	// format family. Raised before any subprocess is spawned.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrDependencyMissing means a required external converter binary
	// could not be located on PATH.
	ErrDependencyMissing = errors.New("required external tool not found")

	// ErrToolTimeout means an external converter exceeded its time budget
	// and was terminated.
	ErrToolTimeout = errors.New("external tool timed out")

	// ErrToolFailed means an external converter exited non-zero.
	ErrToolFailed = errors.New("external tool failed")

	// ErrStagingConflict means a computed output path already holds a file
	// that this run did not produce.
	ErrStagingConflict = errors.New("output path already exists")

	// ErrPartialFailure means some, but not all, requested publish targets
	// failed. The run as a whole still counts as a success.
	ErrPartialFailure = errors.New("some requested outputs failed")
)

// ErrorKind maps an error to its taxonomy label for serialization.
// Unrecognized errors report as "Internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "UnsupportedFormat"
	case errors.Is(err, ErrDependencyMissing):
		return "DependencyMissing"
	case errors.Is(err, ErrToolTimeout):
		return "ToolTimeout"
	case errors.Is(err, ErrToolFailed):
		return "ToolFailed"
	case errors.Is(err, ErrStagingConflict):
		return "StagingConflict"
	case errors.Is(err, ErrPartialFailure):
		return "PartialFailure"
	default:
		return "Internal"
	}
}
