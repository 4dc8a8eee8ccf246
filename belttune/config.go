package belttune

// Config holds the analysis tunables. These are fixed physical and numeric
// constants of the measurement setup, documented here for reproducibility;
// they are not runtime state and nothing mutates them after construction.
type Config struct {
	// TriggerMargin is the number of samples excluded from each end of the
	// capture when locating the pluck, guarding against recording-boundary
	// artifacts.
	TriggerMargin int `json:"trigger_margin"`

	// SkipDuration is how long after the trigger the analysis window starts,
	// in seconds. The first tens of milliseconds hold the nonlinear impact
	// response, not the resonance.
	SkipDuration float64 `json:"skip_duration"`

	// WindowDuration is the analysis window length in seconds.
	WindowDuration float64 `json:"window_duration"`

	// NotchFrequency and NotchQ configure the filter that suppresses the
	// mounting structure's own resonance, which is unrelated to belt
	// tension and otherwise dominates the spectrum.
	NotchFrequency float64 `json:"notch_frequency"`
	NotchQ         float64 `json:"notch_q"`

	// BandLow..BandHigh is the physically plausible belt band in Hz;
	// BandpassOrder is the Butterworth order restricting energy to it.
	BandLow       float64 `json:"band_low"`
	BandHigh      float64 `json:"band_high"`
	BandpassOrder int     `json:"bandpass_order"`

	// WelchSegmentFraction sets the Welch segment length as a fraction of
	// one second of samples; WelchOverlap is the fractional overlap.
	WelchSegmentFraction float64 `json:"welch_segment_fraction"`
	WelchOverlap         float64 `json:"welch_overlap"`

	// FFTLength is the zero-padded transform size for the fine spectrum.
	FFTLength int `json:"fft_length"`

	// SearchRadius bounds the fine peak search to this many Hz around the
	// coarse Welch estimate.
	SearchRadius float64 `json:"search_radius"`

	// ExpectedFrequency, when positive, narrows the coarse search to
	// HintRadius around it. It is an explicit caller-supplied expectation;
	// staleness is the caller's concern.
	ExpectedFrequency float64 `json:"expected_frequency,omitempty"`
	HintRadius        float64 `json:"hint_radius"`

	// Debug raises log verbosity. It never changes analysis behavior.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the documented measurement constants.
func DefaultConfig() *Config {
	return &Config{
		TriggerMargin:        100,
		SkipDuration:         0.050,
		WindowDuration:       1.000,
		NotchFrequency:       176.0,
		NotchQ:               30.0,
		BandLow:              90.0,
		BandHigh:             140.0,
		BandpassOrder:        4,
		WelchSegmentFraction: 0.25,
		WelchOverlap:         0.5,
		FFTLength:            8192,
		SearchRadius:         5.0,
		HintRadius:           10.0,
	}
}
