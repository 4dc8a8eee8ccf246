package capture

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Magnitude combines the acceleration axes into a single scalar signal.
//
// Each axis first has its mean over the whole series subtracted. This is a
// constant offset correction (gravity and sensor bias), not a high-pass
// filter. The centered axes are then combined sample-by-sample with the
// Euclidean norm, which makes the result independent of sensor orientation.
func (s *SampleSeries) Magnitude() []float64 {
	n := s.Len()
	mag := make([]float64, n)
	if n == 0 {
		return mag
	}

	meanX := stat.Mean(s.X, nil)
	meanY := stat.Mean(s.Y, nil)
	meanZ := 0.0
	if s.Z != nil {
		meanZ = stat.Mean(s.Z, nil)
	}

	for i := 0; i < n; i++ {
		dx := s.X[i] - meanX
		dy := s.Y[i] - meanY
		sum := dx*dx + dy*dy
		if s.Z != nil {
			dz := s.Z[i] - meanZ
			sum += dz * dz
		}
		mag[i] = math.Sqrt(sum)
	}

	return mag
}
