package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 3200.0

func decayingSine(freq, decay float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / testRate
		out[i] = math.Exp(-t/decay) * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func TestWelchLocatesPeak(t *testing.T) {
	freqs, power := NewWelch(testRate, 0.25, 0.5).Compute(decayingSine(112.0, 0.5, 3200))
	require.NotEmpty(t, freqs)
	require.Len(t, power, len(freqs))

	idx, ok := MaxInBand(freqs, power, Band{Low: 90, High: 140})
	require.True(t, ok)

	// Segment length rate/4 gives 4 Hz bins; the peak must land on the
	// nearest bin to 112 Hz.
	assert.InDelta(t, 112.0, freqs[idx], 2.5)
}

func TestWelchSegmentCappedAtSignalLength(t *testing.T) {
	short := decayingSine(112.0, 0.5, 600) // shorter than rate/4 would want
	freqs, power := NewWelch(testRate, 0.25, 0.5).Compute(short)

	require.NotEmpty(t, freqs)
	idx, ok := MaxInBand(freqs, power, Band{Low: 90, High: 140})
	require.True(t, ok)
	assert.InDelta(t, 112.0, freqs[idx], 6.0)
}

func TestWelchEmptySignal(t *testing.T) {
	freqs, power := NewWelch(testRate, 0.25, 0.5).Compute(nil)
	assert.Nil(t, freqs)
	assert.Nil(t, power)
}

func TestHighResBinSpacing(t *testing.T) {
	freqs, magnitude := NewHighRes(testRate, 8192).Compute(decayingSine(112.0, 0.5, 3200))

	require.Len(t, freqs, 8192/2+1)
	require.Len(t, magnitude, len(freqs))
	assert.InDelta(t, testRate/8192, freqs[1]-freqs[0], 1e-9)
	assert.InDelta(t, testRate/2, freqs[len(freqs)-1], 1e-9)
}

func TestHighResGrowsForLongSignals(t *testing.T) {
	long := decayingSine(112.0, 2.0, 12000)
	freqs, _ := NewHighRes(testRate, 8192).Compute(long)

	// 12000 samples does not fit in 8192; the transform doubles to 16384.
	require.Len(t, freqs, 16384/2+1)
}

func TestHighResPeakNearTone(t *testing.T) {
	freqs, magnitude := NewHighRes(testRate, 8192).Compute(decayingSine(112.0, 0.5, 3200))

	idx, ok := MaxInBand(freqs, magnitude, Band{Low: 90, High: 140})
	require.True(t, ok)
	assert.InDelta(t, 112.0, freqs[idx], 0.5)
}

func TestBandRange(t *testing.T) {
	freqs := []float64{0, 50, 90, 100, 140, 150}

	tests := []struct {
		name   string
		band   Band
		lo, hi int
	}{
		{"inclusive edges", Band{90, 140}, 2, 5},
		{"inside", Band{95, 139}, 3, 4},
		{"empty above", Band{200, 300}, 6, 6},
		{"empty between bins", Band{101, 139}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := bandRange(freqs, tt.band)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestMaxInBandEmpty(t *testing.T) {
	freqs := []float64{10, 20, 30}
	_, ok := MaxInBand(freqs, []float64{1, 2, 3}, Band{Low: 90, High: 140})
	assert.False(t, ok)
}

func TestParabolicInterpolationExact(t *testing.T) {
	// Sample a known parabola on a uniform grid; the three-point fit must
	// recover the analytic vertex to floating-point precision.
	binWidth := 0.390625 // 3200/8192
	vertex := 112.137

	freqs := make([]float64, 200)
	magnitude := make([]float64, 200)
	for i := range freqs {
		f := 90.0 + float64(i)*binWidth
		freqs[i] = f
		magnitude[i] = 50.0 - (f-vertex)*(f-vertex)
	}

	refined, ok := RefinePeak(freqs, magnitude, vertex, 5.0, Band{Low: 90, High: 140})
	require.True(t, ok)
	assert.InDelta(t, vertex, refined, 1e-9)
}

func TestParabolicInterpolationFlatTopFallsBack(t *testing.T) {
	freqs := []float64{110, 111, 112}

	// Flat top: the denominator vanishes, so the bin frequency is
	// reported unadjusted instead of dividing by ~0.
	assert.Equal(t, 111.0, interpolatePeak(freqs, []float64{5, 5, 5}, 1))

	// Edge bins have no neighbor pair and are also left unadjusted.
	assert.Equal(t, 110.0, interpolatePeak(freqs, []float64{5, 4, 3}, 0))
	assert.Equal(t, 112.0, interpolatePeak(freqs, []float64{3, 4, 5}, 2))
}

func TestRefinePeakStaysNearCoarseEstimate(t *testing.T) {
	// Two tones: a stronger one at 132 Hz and the wanted one at 108 Hz.
	// With the coarse estimate at 108 the search may not jump to 132.
	n := 3200
	signal := make([]float64, n)
	for i := range signal {
		t := float64(i) / testRate
		signal[i] = math.Sin(2*math.Pi*108*t) + 3*math.Sin(2*math.Pi*132*t)
	}

	freqs, magnitude := NewHighRes(testRate, 8192).Compute(signal)

	refined, ok := RefinePeak(freqs, magnitude, 108.0, 5.0, Band{Low: 90, High: 140})
	require.True(t, ok)
	assert.InDelta(t, 108.0, refined, 0.5)
}

func TestRefinePeakFallsBackToBand(t *testing.T) {
	freqs, magnitude := NewHighRes(testRate, 8192).Compute(decayingSine(112.0, 0.5, 3200))

	// Coarse estimate far outside the band: neighborhood is empty, the
	// whole band is searched instead.
	refined, ok := RefinePeak(freqs, magnitude, 500.0, 5.0, Band{Low: 90, High: 140})
	require.True(t, ok)
	assert.InDelta(t, 112.0, refined, 0.5)
}

func TestQFactorTriangularPeak(t *testing.T) {
	// Triangle of half-width 2 Hz peaked at 112 Hz on a 0.5 Hz grid. Bins
	// above half power (1/sqrt2) span 111.5..112.5.
	freqs := make([]float64, 100)
	magnitude := make([]float64, 100)
	for i := range freqs {
		f := 90.0 + 0.5*float64(i)
		freqs[i] = f
		magnitude[i] = math.Max(0, 1.0-math.Abs(f-112.0)/2.0)
	}

	q := QFactor(freqs, magnitude, 112.0, Band{Low: 90, High: 140})
	assert.InDelta(t, 112.0/1.0, q, 1e-9)
}

func TestQFactorSharperPeakScoresHigher(t *testing.T) {
	qSharp := qOfDecay(t, 0.5)
	qBroad := qOfDecay(t, 0.05)

	assert.Greater(t, qSharp, qBroad)
}

func qOfDecay(t *testing.T, decay float64) float64 {
	t.Helper()
	freqs, magnitude := NewHighRes(testRate, 8192).Compute(decayingSine(112.0, decay, 3200))
	refined, ok := RefinePeak(freqs, magnitude, 112.0, 5.0, Band{Low: 90, High: 140})
	require.True(t, ok)
	return QFactor(freqs, magnitude, refined, Band{Low: 90, High: 140})
}

func TestQFactorDegenerate(t *testing.T) {
	t.Run("empty band", func(t *testing.T) {
		q := QFactor([]float64{10, 20}, []float64{1, 1}, 112, Band{Low: 90, High: 140})
		assert.Zero(t, q)
	})

	t.Run("all zero magnitude", func(t *testing.T) {
		freqs := []float64{100, 110, 120}
		q := QFactor(freqs, []float64{0, 0, 0}, 110, Band{Low: 90, High: 140})
		assert.Zero(t, q)
	})
}

func TestWelchDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	signal := make([]float64, 3200)
	for i := range signal {
		t := float64(i) / testRate
		signal[i] = math.Sin(2*math.Pi*112*t) + 0.1*rng.NormFloat64()
	}

	w := NewWelch(testRate, 0.25, 0.5)
	f1, p1 := w.Compute(signal)
	f2, p2 := w.Compute(signal)

	assert.Equal(t, f1, f2)
	assert.Equal(t, p1, p2)
}
