package capture

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 3200.0

// buildCSV renders a capture with the given number of rows. Values are
// arbitrary but deterministic.
func buildCSV(rows int, withHeader, withZ bool) string {
	var b strings.Builder
	b.WriteString("# adxl345 capture\n")
	if withHeader {
		if withZ {
			b.WriteString("time,accel_x,accel_y,accel_z\n")
		} else {
			b.WriteString("time,accel_x,accel_y\n")
		}
	}
	for i := 0; i < rows; i++ {
		t := float64(i) / testRate
		x := math.Sin(float64(i) * 0.1)
		y := math.Cos(float64(i) * 0.1)
		if withZ {
			fmt.Fprintf(&b, "%.9f,%.6f,%.6f,%.6f\n", t, x, y, 9.81+0.001*x)
		} else {
			fmt.Fprintf(&b, "%.9f,%.6f,%.6f\n", t, x, y)
		}
	}
	return b.String()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		withHeader bool
		withZ      bool
	}{
		{"header two axes", true, false},
		{"header three axes", true, true},
		{"no header", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Parse(strings.NewReader(buildCSV(2000, tt.withHeader, tt.withZ)))
			require.NoError(t, err)

			assert.Equal(t, 2000, series.Len())
			assert.InDelta(t, testRate, series.SampleRate, 0.5)
			if tt.withZ {
				assert.Len(t, series.Z, 2000)
			} else {
				assert.Nil(t, series.Z)
			}
		})
	}
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(strings.NewReader(buildCSV(999, true, false)))

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "loader", insufficient.Stage)
	assert.Equal(t, MinSamples, insufficient.Needed)
	assert.Equal(t, 999, insufficient.Available)
}

func TestParseExactMinimum(t *testing.T) {
	series, err := Parse(strings.NewReader(buildCSV(1000, true, false)))
	require.NoError(t, err)
	assert.Equal(t, 1000, series.Len())
}

func TestParseMalformed(t *testing.T) {
	t.Run("non-numeric value", func(t *testing.T) {
		csv := buildCSV(1200, true, false)
		csv = strings.Replace(csv, "0.000312500", "bogus", 1)

		_, err := Parse(strings.NewReader(csv))

		var invalid *InvalidFormatError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Error(), "bogus")
	})

	t.Run("too few header columns", func(t *testing.T) {
		_, err := Parse(strings.NewReader("time,accel_x\n0.0,1.0\n"))

		var invalid *InvalidFormatError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""))

		var insufficient *InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
	})
}

func TestParseNonMonotonicTimestamps(t *testing.T) {
	var b strings.Builder
	b.WriteString("time,accel_x,accel_y\n")
	for i := 0; i < 1100; i++ {
		ts := float64(i) / testRate
		if i == 500 {
			ts = float64(498) / testRate // goes backwards
		}
		fmt.Fprintf(&b, "%.9f,0.1,0.2\n", ts)
	}

	_, err := Parse(strings.NewReader(b.String()))

	var invalid *InvalidFormatError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "does not increase")
}

func TestNewSeriesValidation(t *testing.T) {
	times := make([]float64, 1500)
	x := make([]float64, 1500)
	y := make([]float64, 1500)
	for i := range times {
		times[i] = float64(i) / testRate
	}

	t.Run("valid", func(t *testing.T) {
		series, err := NewSeries(times, x, y, nil)
		require.NoError(t, err)
		assert.InDelta(t, testRate, series.SampleRate, 1e-6)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := NewSeries(times, x[:100], y, nil)
		var invalid *InvalidFormatError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NewSeries(times[:999], x[:999], y[:999], nil)
		var insufficient *InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
	})
}

func TestDeriveSampleRateRejectsPathological(t *testing.T) {
	times := make([]float64, 1200)
	x := make([]float64, 1200)
	y := make([]float64, 1200)
	for i := range times {
		times[i] = float64(i) // 1 Hz, absurd for an accelerometer
	}

	_, err := NewSeries(times, x, y, nil)

	var invalid *InvalidFormatError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "sample rate")
}

func TestMagnitudeRemovesDC(t *testing.T) {
	n := 2000
	times := make([]float64, n)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / testRate
		x[i] = 5.0 // pure offset, no signal
		if i%2 == 0 {
			y[i] = -2.0 + 3.0
		} else {
			y[i] = -2.0 - 3.0
		}
	}

	series, err := NewSeries(times, x, y, nil)
	require.NoError(t, err)

	mag := series.Magnitude()
	require.Len(t, mag, n)

	// X is constant so it vanishes entirely; Y alternates ±3 around its
	// mean, so every magnitude sample is exactly 3.
	for i, m := range mag {
		if !assert.InDelta(t, 3.0, m, 1e-9, "sample %d", i) {
			break
		}
	}
}

func TestMagnitudeThreeAxes(t *testing.T) {
	n := 1000
	times := make([]float64, n)
	x := make([]float64, n)
	y := make([]float64, n)
	z := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / testRate
		if i%2 == 0 {
			x[i], y[i], z[i] = 1, 1, 1
		} else {
			x[i], y[i], z[i] = -1, -1, -1
		}
	}

	series, err := NewSeries(times, x, y, z)
	require.NoError(t, err)

	mag := series.Magnitude()
	assert.InDelta(t, math.Sqrt(3), mag[0], 1e-9)
	assert.InDelta(t, math.Sqrt(3), mag[1], 1e-9)
}

func TestErrorsAreDistinct(t *testing.T) {
	short := &InsufficientDataError{Stage: "loader", Needed: 1000, Available: 10}
	bad := &InvalidFormatError{Reason: "x"}

	var insufficient *InsufficientDataError
	assert.True(t, errors.As(short, &insufficient))
	assert.False(t, errors.As(bad, &insufficient))
}
