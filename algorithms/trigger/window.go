package trigger

import (
	"github.com/tensionlab/beltpluck/capture"
)

// ExtractWindow carves the decay segment used for spectral analysis.
//
// The window starts skip seconds after the trigger index and lasts duration
// seconds. The first tens of milliseconds after impact are dominated by the
// nonlinear impulse response rather than the resonance, so they are skipped
// instead of analyzed.
//
// If the window would run past the end of the signal the extraction fails
// with a capture.InsufficientDataError naming the shortfall. Truncating
// silently would bias the spectral estimate, so it is never done.
func ExtractWindow(signal []float64, triggerIndex int, sampleRate, skip, duration float64) ([]float64, error) {
	skipSamples := int(skip * sampleRate)
	durationSamples := int(duration * sampleRate)

	start := triggerIndex + skipSamples
	end := start + durationSamples

	if end > len(signal) {
		return nil, &capture.InsufficientDataError{
			Stage:     "window extractor",
			Needed:    end,
			Available: len(signal),
		}
	}

	window := make([]float64, durationSamples)
	copy(window, signal[start:end])
	return window, nil
}
