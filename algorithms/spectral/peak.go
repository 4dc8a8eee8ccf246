package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Band is an inclusive frequency range in Hz.
type Band struct {
	Low  float64
	High float64
}

// Contains reports whether f lies inside the band.
func (b Band) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

// bandRange returns the half-open index range [lo, hi) of freqs falling
// inside band. freqs must be ascending.
func bandRange(freqs []float64, band Band) (lo, hi int) {
	lo = len(freqs)
	for i, f := range freqs {
		if f >= band.Low {
			lo = i
			break
		}
	}
	hi = lo
	for hi < len(freqs) && freqs[hi] <= band.High {
		hi++
	}
	return lo, hi
}

// MaxInBand returns the index of the largest value whose frequency lies in
// band. ok is false when the band covers no bins.
func MaxInBand(freqs, values []float64, band Band) (idx int, ok bool) {
	lo, hi := bandRange(freqs, band)
	if lo >= hi {
		return 0, false
	}
	return lo + floats.MaxIdx(values[lo:hi]), true
}

// RefinePeak finds the spectral peak near a coarse estimate and refines it
// to sub-bin precision.
//
// The search is limited to center ± radius inside band, so a stronger but
// unrelated line elsewhere in the spectrum (a structural resonance or one of
// its harmonics) cannot capture the result. If the neighborhood holds no
// bins, the search falls back to the whole band.
func RefinePeak(freqs, magnitude []float64, center, radius float64, band Band) (float64, bool) {
	neighborhood := Band{
		Low:  math.Max(center-radius, band.Low),
		High: math.Min(center+radius, band.High),
	}

	idx, ok := MaxInBand(freqs, magnitude, neighborhood)
	if !ok {
		idx, ok = MaxInBand(freqs, magnitude, band)
		if !ok {
			return 0, false
		}
	}

	return interpolatePeak(freqs, magnitude, idx), true
}

// interpolatePeak fits a parabola through the peak bin and its two neighbors
// and returns the frequency of the parabola's vertex. A flat or degenerate
// top (denominator ~0) and edge bins fall back to the bin frequency itself.
func interpolatePeak(freqs, magnitude []float64, peakIdx int) float64 {
	if peakIdx <= 0 || peakIdx >= len(magnitude)-1 {
		return freqs[peakIdx]
	}

	left := magnitude[peakIdx-1]
	mid := magnitude[peakIdx]
	right := magnitude[peakIdx+1]

	denom := left - 2.0*mid + right
	if math.Abs(denom) < 1e-12 {
		return freqs[peakIdx]
	}

	delta := 0.5 * (left - right) / denom
	binWidth := freqs[1] - freqs[0]

	return freqs[peakIdx] + delta*binWidth
}

// QFactor measures the sharpness of the resonance at peakFreq as
// frequency / bandwidth, where bandwidth is the width of the contiguous
// region around the peak that stays above half-maximum power
// (1/sqrt(2) of the peak magnitude).
//
// Returns 0 when the peak is too narrow to measure or the band holds no
// bins; callers treat that as the lowest confidence, not as an error.
func QFactor(freqs, magnitude []float64, peakFreq float64, band Band) float64 {
	lo, hi := bandRange(freqs, band)
	if lo >= hi {
		return 0
	}

	// Bin nearest the refined peak.
	peakIdx := lo
	best := math.Abs(freqs[lo] - peakFreq)
	for i := lo + 1; i < hi; i++ {
		if d := math.Abs(freqs[i] - peakFreq); d < best {
			best = d
			peakIdx = i
		}
	}

	halfPower := magnitude[peakIdx] / math.Sqrt2
	if halfPower <= 0 {
		return 0
	}

	left := peakIdx
	for left > lo && magnitude[left-1] > halfPower {
		left--
	}
	right := peakIdx
	for right < hi-1 && magnitude[right+1] > halfPower {
		right++
	}

	bandwidth := freqs[right] - freqs[left]
	if bandwidth <= 0 {
		return 0
	}

	return peakFreq / bandwidth
}
