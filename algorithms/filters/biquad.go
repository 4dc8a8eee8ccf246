package filters

import "math"

// Coefficients holds one normalized biquad section (a0 == 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Response computes the magnitude of the section's frequency response at
// frequency Hz for the given sample rate.
//
// H(e^jw) = (b0 + b1*e^-jw + b2*e^-j2w) / (1 + a1*e^-jw + a2*e^-j2w)
func (c Coefficients) Response(frequency, sampleRate float64) float64 {
	w := 2.0 * math.Pi * frequency / sampleRate

	cosW := math.Cos(w)
	sinW := math.Sin(w)
	cos2W := math.Cos(2 * w)
	sin2W := math.Sin(2 * w)

	numReal := c.B0 + c.B1*cosW + c.B2*cos2W
	numImag := -c.B1*sinW - c.B2*sin2W

	denReal := 1 + c.A1*cosW + c.A2*cos2W
	denImag := -c.A1*sinW - c.A2*sin2W

	num := math.Hypot(numReal, numImag)
	den := math.Hypot(denReal, denImag)
	if den == 0 {
		return math.Inf(1)
	}

	return num / den
}

// Section is a single second-order IIR stage.
// Uses Direct Form II for numerical stability.
type Section struct {
	coef   Coefficients
	w1, w2 float64 // delay line
}

// NewSection creates a section from normalized coefficients.
func NewSection(c Coefficients) *Section {
	return &Section{coef: c}
}

// Process applies the section to a single sample.
//
// The difference equation is:
// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
func (s *Section) Process(x float64) float64 {
	w := x - s.coef.A1*s.w1 - s.coef.A2*s.w2
	y := s.coef.B0*w + s.coef.B1*s.w1 + s.coef.B2*s.w2

	s.w2 = s.w1
	s.w1 = w

	return y
}

// Reset clears the section's delay line. Call between discontinuous segments.
func (s *Section) Reset() {
	s.w1, s.w2 = 0, 0
}

// Cascade chains biquad sections in series.
type Cascade struct {
	sections []*Section
	coeffs   []Coefficients
}

// NewCascade creates a cascade from a list of section coefficients.
func NewCascade(coeffs []Coefficients) *Cascade {
	sections := make([]*Section, len(coeffs))
	for i, c := range coeffs {
		sections[i] = NewSection(c)
	}
	return &Cascade{sections: sections, coeffs: coeffs}
}

// Process applies the cascade to a single sample.
func (c *Cascade) Process(x float64) float64 {
	for _, s := range c.sections {
		x = s.Process(x)
	}
	return x
}

// ProcessBuffer applies the cascade to an entire buffer, returning a new
// slice of the same length.
func (c *Cascade) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = c.Process(sample)
	}
	return output
}

// ProcessZeroPhase filters the buffer forward, then backward, cancelling the
// cascade's phase shift. The magnitude response is applied twice. This is
// how the analysis window is filtered, so filter delay cannot shift the
// decay segment relative to the trigger.
func (c *Cascade) ProcessZeroPhase(input []float64) []float64 {
	c.Reset()
	forward := c.ProcessBuffer(input)
	reverse(forward)

	c.Reset()
	backward := c.ProcessBuffer(forward)
	reverse(backward)

	c.Reset()
	return backward
}

// Reset clears the state of every section.
func (c *Cascade) Reset() {
	for _, s := range c.sections {
		s.Reset()
	}
}

// Response computes the combined single-pass magnitude response of the
// cascade at frequency Hz.
func (c *Cascade) Response(frequency, sampleRate float64) float64 {
	mag := 1.0
	for _, coef := range c.coeffs {
		mag *= coef.Response(frequency, sampleRate)
	}
	return mag
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
