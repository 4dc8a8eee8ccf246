package belttune

// Confidence rates how trustworthy a frequency estimate is, derived from the
// sharpness (Q factor) of the detected resonance. LOW is still a successful
// measurement; callers decide whether to accept it, retry, or average.
type Confidence string

const (
	ConfidenceExcellent Confidence = "EXCELLENT"
	ConfidenceHigh      Confidence = "HIGH"
	ConfidenceGood      Confidence = "GOOD"
	ConfidenceLow       Confidence = "LOW"
)

// ConfidenceForQ maps a Q factor to its confidence label. The mapping is a
// monotone step function: a sharper peak never earns a worse label.
func ConfidenceForQ(q float64) Confidence {
	switch {
	case q > 50:
		return ConfidenceExcellent
	case q > 20:
		return ConfidenceHigh
	case q > 10:
		return ConfidenceGood
	default:
		return ConfidenceLow
	}
}

// rank orders confidence labels for comparisons; higher is better.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceExcellent:
		return 3
	case ConfidenceHigh:
		return 2
	case ConfidenceGood:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is as trustworthy as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// Result is the record produced by one analysis. Exactly one of the
// measurement fields (Frequency, QFactor, Confidence) or Error is populated,
// never both. TriggerTime, PSDEstimate and SampleRate are diagnostics and
// are filled in as far as the pipeline got, on failures included.
type Result struct {
	Belt        string     `json:"belt,omitempty"`
	Frequency   float64    `json:"frequency"`    // refined estimate, Hz
	QFactor     float64    `json:"q_factor"`     // peak sharpness
	Confidence  Confidence `json:"confidence,omitempty"`
	TriggerTime float64    `json:"trigger_time"` // seconds from capture start
	PSDEstimate float64    `json:"psd_estimate"` // coarse Welch estimate, Hz
	SampleRate  float64    `json:"sample_rate"`  // Hz
	Error       string     `json:"error,omitempty"`
}

// OK reports whether the analysis succeeded.
func (r *Result) OK() bool {
	return r.Error == ""
}

// ResultConsumer is the presentation boundary: anything that can receive a
// finished record for a labeled belt. UI panels, web handlers and terminal
// printers all sit behind this interface, fully decoupled from the analysis.
type ResultConsumer interface {
	Accept(result *Result, belt string) error
}
