package capture

import "fmt"

// InvalidFormatError indicates a capture file or stream that does not follow
// the expected delimited layout: missing columns, unparsable values, or
// timestamps that do not increase.
type InvalidFormatError struct {
	Reason string
	Line   int // 1-based line number when known, 0 otherwise
}

func (e *InvalidFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid capture format at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("invalid capture format: %s", e.Reason)
}

// InsufficientDataError indicates a capture that is too short for the stage
// named in Stage. Needed and Available are sample counts so the operator can
// see exactly how much longer the recording must be.
type InsufficientDataError struct {
	Stage     string
	Needed    int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data in %s: need %d samples, have %d",
		e.Stage, e.Needed, e.Available)
}
