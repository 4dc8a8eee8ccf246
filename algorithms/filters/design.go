package filters

import (
	"fmt"
	"math"
)

// Biquad designs follow the cookbook formulas from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients".
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html

// Notch designs a notch biquad centered at freq (Hz) with quality factor q.
// The notch strongly attenuates a narrow band around freq and passes
// everything else.
func Notch(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	return normalize(
		1.0, -2.0*cosW0, 1.0,
		1.0+alpha, -2.0*cosW0, 1.0-alpha,
	), nil
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	return normalize(
		(1.0-cosW0)/2.0, 1.0-cosW0, (1.0-cosW0)/2.0,
		1.0+alpha, -2.0*cosW0, 1.0-alpha,
	), nil
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) (Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return Coefficients{}, err
	}

	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2.0 * q)

	return normalize(
		(1.0+cosW0)/2.0, -(1.0 + cosW0), (1.0+cosW0)/2.0,
		1.0+alpha, -2.0*cosW0, 1.0-alpha,
	), nil
}

// ButterworthBandpass designs a bandpass of the given order as a Butterworth
// highpass at low cascaded with a Butterworth lowpass at high. Only even
// orders are supported; the result has `order` biquad sections.
func ButterworthBandpass(low, high, sampleRate float64, order int) ([]Coefficients, error) {
	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("bandpass order must be a positive even number, got %d", order)
	}
	if low >= high {
		return nil, fmt.Errorf("bandpass edges inverted: %g..%g Hz", low, high)
	}

	sections := make([]Coefficients, 0, order)

	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		hp, err := Highpass(low, q, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, hp)
	}

	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		lp, err := Lowpass(high, q, sampleRate)
		if err != nil {
			return nil, err
		}
		sections = append(sections, lp)
	}

	return sections, nil
}

// butterworthQ returns the quality factor for section index of an
// order-N Butterworth cascade: 1 / (2 sin θ) with θ = π(2i+1)/(2N).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2.0 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// normalizedW0 converts freq to the normalized angular frequency
// w0 = 2*pi*f0/Fs and rejects frequencies outside (0, Nyquist).
func normalizedW0(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}
	if freq <= 0 || freq >= sampleRate/2 {
		return 0, fmt.Errorf("frequency %g Hz outside (0, %g) at %g Hz sample rate",
			freq, sampleRate/2, sampleRate)
	}

	return 2.0 * math.Pi * freq / sampleRate, nil
}

// normalize divides through by a0 so the stored section has a0 == 1.
func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
