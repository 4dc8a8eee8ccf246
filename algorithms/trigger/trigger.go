package trigger

import (
	"fmt"
	"math"
)

// PluckEvent locates the impact transient in a magnitude signal.
type PluckEvent struct {
	Index     int     // sample index of the peak
	Magnitude float64 // absolute magnitude at the peak
}

// NoPeakFoundError indicates that no usable trigger exists: the
// margin-trimmed range is empty, or the signal in it is degenerate.
type NoPeakFoundError struct {
	Reason string
}

func (e *NoPeakFoundError) Error() string {
	return fmt.Sprintf("no trigger peak found: %s", e.Reason)
}

// Detector finds the pluck impulse as the global absolute-value peak of the
// magnitude signal. A fixed margin at both ends is excluded so that filter
// startup spikes and truncation artifacts cannot be mistaken for the pluck.
type Detector struct {
	margin int
}

// NewDetector creates a detector that ignores margin samples at each end.
func NewDetector(margin int) *Detector {
	if margin < 0 {
		margin = 0
	}
	return &Detector{margin: margin}
}

// Detect returns the pluck event within the margin-trimmed range of signal.
func (d *Detector) Detect(signal []float64) (PluckEvent, error) {
	lo := d.margin
	hi := len(signal) - d.margin
	if lo >= hi {
		return PluckEvent{}, &NoPeakFoundError{
			Reason: fmt.Sprintf("signal of %d samples leaves no room inside a %d sample margin", len(signal), d.margin),
		}
	}

	best := lo
	bestMag := math.Abs(signal[lo])
	for i := lo + 1; i < hi; i++ {
		if m := math.Abs(signal[i]); m > bestMag {
			bestMag = m
			best = i
		}
	}

	if bestMag == 0 {
		return PluckEvent{}, &NoPeakFoundError{Reason: "signal is zero everywhere inside the margin"}
	}

	return PluckEvent{Index: best, Magnitude: bestMag}, nil
}
