package capture

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// MinSamples is the minimum number of rows required for a reliable
	// analysis. Shorter captures fail at the loader.
	MinSamples = 1000

	// MinSampleRate rejects pathological captures whose derived rate is far
	// below anything a vibration sensor would produce.
	MinSampleRate = 100.0
)

// SampleSeries holds a parsed accelerometer capture: one timestamp per row
// plus two or three acceleration axes. Timestamps are seconds from the start
// of the capture and strictly increasing.
type SampleSeries struct {
	Times []float64
	X     []float64
	Y     []float64
	Z     []float64 // nil for 2-axis captures

	// SampleRate is derived from the timestamps, in Hz.
	SampleRate float64
}

// Len returns the number of samples in the series.
func (s *SampleSeries) Len() int {
	return len(s.Times)
}

// Duration returns the time span covered by the series in seconds.
func (s *SampleSeries) Duration() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1] - s.Times[0]
}

// Load reads and parses a capture file from disk.
func Load(path string) (*SampleSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a delimited capture stream. Lines starting with '#' are
// skipped, an optional header row naming the columns follows, then data rows
// of timestamp, accel_x, accel_y and optionally accel_z.
func Parse(r io.Reader) (*SampleSeries, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &InvalidFormatError{Reason: err.Error()}
	}

	if len(records) == 0 {
		return nil, &InsufficientDataError{Stage: "loader", Needed: MinSamples, Available: 0}
	}

	// A header row is present when the first field is not numeric.
	start := 0
	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][0]), 64); err != nil {
		if len(records[0]) < 3 {
			return nil, &InvalidFormatError{
				Reason: fmt.Sprintf("header names %d columns, need at least timestamp and two axes", len(records[0])),
				Line:   1,
			}
		}
		start = 1
	}

	rows := records[start:]
	if len(rows) < MinSamples {
		return nil, &InsufficientDataError{Stage: "loader", Needed: MinSamples, Available: len(rows)}
	}

	hasZ := len(rows[0]) >= 4

	series := &SampleSeries{
		Times: make([]float64, 0, len(rows)),
		X:     make([]float64, 0, len(rows)),
		Y:     make([]float64, 0, len(rows)),
	}
	if hasZ {
		series.Z = make([]float64, 0, len(rows))
	}

	for i, rec := range rows {
		line := start + i + 1
		want := 3
		if hasZ {
			want = 4
		}
		if len(rec) < want {
			return nil, &InvalidFormatError{
				Reason: fmt.Sprintf("row has %d columns, want %d", len(rec), want),
				Line:   line,
			}
		}

		vals := make([]float64, want)
		for j := 0; j < want; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				return nil, &InvalidFormatError{
					Reason: fmt.Sprintf("column %d is not numeric: %q", j+1, rec[j]),
					Line:   line,
				}
			}
			vals[j] = v
		}

		if n := len(series.Times); n > 0 && vals[0] <= series.Times[n-1] {
			return nil, &InvalidFormatError{
				Reason: fmt.Sprintf("timestamp %g does not increase past %g", vals[0], series.Times[n-1]),
				Line:   line,
			}
		}

		series.Times = append(series.Times, vals[0])
		series.X = append(series.X, vals[1])
		series.Y = append(series.Y, vals[2])
		if hasZ {
			series.Z = append(series.Z, vals[3])
		}
	}

	rate, err := deriveSampleRate(series.Times)
	if err != nil {
		return nil, err
	}
	series.SampleRate = rate

	return series, nil
}

// NewSeries builds a SampleSeries from in-memory arrays, applying the same
// validation as Parse. The z slice may be nil.
func NewSeries(times, x, y, z []float64) (*SampleSeries, error) {
	if len(times) != len(x) || len(times) != len(y) || (z != nil && len(times) != len(z)) {
		return nil, &InvalidFormatError{Reason: "axis lengths do not match timestamps"}
	}
	if len(times) < MinSamples {
		return nil, &InsufficientDataError{Stage: "loader", Needed: MinSamples, Available: len(times)}
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, &InvalidFormatError{
				Reason: fmt.Sprintf("timestamp %g does not increase past %g", times[i], times[i-1]),
			}
		}
	}

	rate, err := deriveSampleRate(times)
	if err != nil {
		return nil, err
	}

	return &SampleSeries{Times: times, X: x, Y: y, Z: z, SampleRate: rate}, nil
}

// deriveSampleRate computes the rate from the mean timestamp spacing, the
// same way the capture tooling reports it.
func deriveSampleRate(times []float64) (float64, error) {
	span := times[len(times)-1] - times[0]
	if span <= 0 {
		return 0, &InvalidFormatError{Reason: "capture spans zero time"}
	}

	rate := float64(len(times)-1) / span
	if rate < MinSampleRate {
		return 0, &InvalidFormatError{
			Reason: fmt.Sprintf("derived sample rate %.1f Hz is below the %.0f Hz minimum", rate, MinSampleRate),
		}
	}

	return rate, nil
}
