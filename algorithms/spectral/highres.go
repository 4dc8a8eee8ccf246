package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DefaultFFTLength is the zero-padded transform size. Padding does not add
// information; it samples the underlying spectrum densely enough that
// parabolic interpolation works on a smooth curve instead of a coarse grid.
const DefaultFFTLength = 8192

// HighRes computes a finely-sampled magnitude spectrum: Hann taper against
// spectral leakage, then a zero-padded real FFT.
type HighRes struct {
	sampleRate float64
	fftLength  int
}

// NewHighRes creates a high-resolution analyzer. fftLength <= 0 selects
// DefaultFFTLength.
func NewHighRes(sampleRate float64, fftLength int) *HighRes {
	if fftLength <= 0 {
		fftLength = DefaultFFTLength
	}
	return &HighRes{sampleRate: sampleRate, fftLength: fftLength}
}

// Compute returns the frequency axis and magnitude spectrum of signal.
// Signals longer than the configured transform length get the next power of
// two instead, so the taper is never truncated.
func (h *HighRes) Compute(signal []float64) (freqs, magnitude []float64) {
	if len(signal) == 0 {
		return nil, nil
	}

	n := h.fftLength
	for n < len(signal) {
		n *= 2
	}

	taper := window.Hann(len(signal))
	padded := make([]float64, n)
	for i, s := range signal {
		padded[i] = s * taper[i]
	}

	spectrum := fft.FFTReal(padded)

	half := n/2 + 1
	freqs = make([]float64, half)
	magnitude = make([]float64, half)
	binWidth := h.sampleRate / float64(n)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) * binWidth
		magnitude[i] = cmplx.Abs(spectrum[i])
	}

	return freqs, magnitude
}
