package spectral

import (
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
)

// Welch computes a smoothed power spectral density by averaging Hann-windowed
// overlapping segments. Averaging trades frequency resolution for variance
// reduction, which makes the coarse estimate reliable even when a single FFT
// of the decay is noisy or multi-modal.
type Welch struct {
	sampleRate      float64
	segmentFraction float64
	overlap         float64
}

// NewWelch creates a Welch estimator. Segment length is sampleRate *
// segmentFraction samples (capped at the signal length) with the given
// fractional overlap between segments.
func NewWelch(sampleRate, segmentFraction, overlap float64) *Welch {
	return &Welch{
		sampleRate:      sampleRate,
		segmentFraction: segmentFraction,
		overlap:         overlap,
	}
}

// Compute returns the frequency axis and power density of signal.
func (w *Welch) Compute(signal []float64) (freqs, power []float64) {
	if len(signal) == 0 {
		return nil, nil
	}

	nperseg := int(w.sampleRate * w.segmentFraction)
	if nperseg > len(signal) {
		nperseg = len(signal)
	}
	// Pwelch requires an even segment length.
	nperseg &^= 1
	if nperseg < 2 {
		return nil, nil
	}

	opts := &spectral.PwelchOptions{
		NFFT:     nperseg,
		Window:   window.Hann,
		Noverlap: int(float64(nperseg) * w.overlap),
	}

	power, freqs = spectral.Pwelch(signal, w.sampleRate, opts)
	return freqs, power
}
