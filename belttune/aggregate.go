package belttune

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// aggregateMinQ drops measurements whose peak was too broad to trust,
	// unless that would drop everything.
	aggregateMinQ = 5.0

	// aggregateSpreadHz triggers outlier rejection when the frequency spread
	// across measurements exceeds it.
	aggregateSpreadHz = 5.0

	// aggregateOutlierHz is how far from the median a measurement may sit
	// before it is rejected as an outlier.
	aggregateOutlierHz = 10.0
)

// Aggregate reduces repeated measurements of one belt into a single record:
// unusable and outlying measurements are dropped, the rest averaged.
//
// Failed results are skipped. If none succeeded, the returned record carries
// only an error, like any other pipeline failure.
func Aggregate(belt string, results []*Result) *Result {
	var valid []*Result
	for _, r := range results {
		if r != nil && r.OK() {
			valid = append(valid, r)
		}
	}

	if len(valid) == 0 {
		return &Result{Belt: belt, Error: "no valid measurements"}
	}
	if len(valid) == 1 {
		out := *valid[0]
		out.Belt = belt
		return &out
	}

	// Keep sharp peaks when any exist.
	good := make([]*Result, 0, len(valid))
	for _, r := range valid {
		if r.QFactor > aggregateMinQ {
			good = append(good, r)
		}
	}
	if len(good) == 0 {
		good = valid
	}

	// High spread means at least one measurement locked onto the wrong
	// line; reject anything far from the median.
	if len(good) >= 2 {
		freqs := frequencies(good)
		if stat.StdDev(freqs, nil) > aggregateSpreadHz {
			median := medianOf(freqs)
			kept := make([]*Result, 0, len(good))
			for _, r := range good {
				if math.Abs(r.Frequency-median) < aggregateOutlierHz {
					kept = append(kept, r)
				}
			}
			if len(kept) > 0 {
				good = kept
			}
		}
	}

	qs := make([]float64, len(good))
	for i, r := range good {
		qs[i] = r.QFactor
	}

	meanFreq := stat.Mean(frequencies(good), nil)
	meanQ := stat.Mean(qs, nil)

	return &Result{
		Belt:       belt,
		Frequency:  meanFreq,
		QFactor:    meanQ,
		Confidence: ConfidenceForQ(meanQ),
		SampleRate: good[0].SampleRate,
	}
}

func frequencies(results []*Result) []float64 {
	freqs := make([]float64, len(results))
	for i, r := range results {
		freqs[i] = r.Frequency
	}
	return freqs
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// MatchRating grades how closely two belts are tensioned to each other.
type MatchRating string

const (
	MatchExcellent MatchRating = "EXCELLENT" // belts are well matched
	MatchGood      MatchRating = "GOOD"      // acceptably matched
	MatchFair      MatchRating = "FAIR"      // consider adjusting
	MatchPoor      MatchRating = "POOR"      // belts need adjustment
)

// Comparison is the outcome of comparing two belts' measurements.
type Comparison struct {
	BeltA  *Result     `json:"belt_a"`
	BeltB  *Result     `json:"belt_b"`
	Delta  float64     `json:"delta"` // absolute frequency difference, Hz
	Rating MatchRating `json:"rating"`
}

// Compare grades the tension match between two successful measurements.
func Compare(a, b *Result) (*Comparison, error) {
	if a == nil || b == nil || !a.OK() || !b.OK() {
		return nil, fmt.Errorf("cannot compare: both measurements must succeed")
	}

	delta := math.Abs(a.Frequency - b.Frequency)

	var rating MatchRating
	switch {
	case delta < 2:
		rating = MatchExcellent
	case delta < 5:
		rating = MatchGood
	case delta < 10:
		rating = MatchFair
	default:
		rating = MatchPoor
	}

	return &Comparison{BeltA: a, BeltB: b, Delta: delta, Rating: rating}, nil
}
