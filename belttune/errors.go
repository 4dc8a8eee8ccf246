package belttune

import (
	"github.com/tensionlab/beltpluck/algorithms/trigger"
	"github.com/tensionlab/beltpluck/capture"
)

// The error conditions raised by pipeline stages, re-exported so callers can
// match them with errors.As without importing the stage packages.
//
// Every one of them is normalized into Result.Error by Analyze; none escape
// the analyzer as a returned error or a panic.
type (
	// InvalidFormatError: malformed capture, missing columns, bad values.
	InvalidFormatError = capture.InvalidFormatError

	// InsufficientDataError: capture shorter than the loader minimum, or the
	// analysis window runs past the end of the recording. This is the common
	// real-world failure (recording stopped too early); the message states
	// needed vs available samples so the operator can lengthen the capture.
	InsufficientDataError = capture.InsufficientDataError

	// NoPeakFoundError: the margin-trimmed signal is empty or degenerate, or
	// no spectral bins fall inside the belt band.
	NoPeakFoundError = trigger.NoPeakFoundError
)
