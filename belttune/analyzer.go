package belttune

import (
	"math"

	"github.com/tensionlab/beltpluck/algorithms/filters"
	"github.com/tensionlab/beltpluck/algorithms/spectral"
	"github.com/tensionlab/beltpluck/algorithms/trigger"
	"github.com/tensionlab/beltpluck/capture"
	"github.com/tensionlab/beltpluck/logging"
)

// Analyzer runs the pluck analysis pipeline. It holds only configuration and
// a logger, allocates fresh working buffers per call, and is safe to use
// from multiple goroutines at once.
type Analyzer struct {
	config *Config
	logger logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config selects DefaultConfig.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = DefaultConfig()
	}

	logger := logging.WithFields(logging.Fields{
		"component": "belt_analyzer",
	})
	if config.Debug {
		logger.SetLevel(logging.DebugLevel)
	}

	return &Analyzer{
		config: config,
		logger: logger,
	}
}

// Analyze is the canonical entry point: load the capture at source, analyze
// it, and return the record for the labeled belt. debug only raises log
// verbosity. All failures come back inside the Result, never as a panic.
func Analyze(source, belt string, debug bool) *Result {
	cfg := DefaultConfig()
	cfg.Debug = debug
	return NewAnalyzer(cfg).AnalyzeFile(source, belt)
}

// AnalyzeFile loads a capture file and analyzes it.
func (a *Analyzer) AnalyzeFile(path, belt string) *Result {
	series, err := capture.Load(path)
	if err != nil {
		a.logger.Error(err, "capture load failed", logging.Fields{"path": path, "belt": belt})
		return &Result{Belt: belt, Error: err.Error()}
	}
	return a.AnalyzeSeries(series, belt)
}

// AnalyzeSeries analyzes an in-memory sample series.
func (a *Analyzer) AnalyzeSeries(series *capture.SampleSeries, belt string) *Result {
	cfg := a.config
	result := &Result{Belt: belt, SampleRate: series.SampleRate}

	a.logger.Debug("analyzing capture", logging.Fields{
		"belt":        belt,
		"samples":     series.Len(),
		"sample_rate": series.SampleRate,
		"duration":    series.Duration(),
	})

	magnitude := series.Magnitude()

	// Trigger on the impact transient.
	event, err := trigger.NewDetector(cfg.TriggerMargin).Detect(magnitude)
	if err != nil {
		return a.fail(result, err)
	}
	result.TriggerTime = float64(event.Index) / series.SampleRate

	a.logger.Debug("trigger located", logging.Fields{
		"index":     event.Index,
		"time":      result.TriggerTime,
		"magnitude": event.Magnitude,
	})

	// Decay window: fixed delay after the trigger, fixed duration.
	window, err := trigger.ExtractWindow(magnitude, event.Index,
		series.SampleRate, cfg.SkipDuration, cfg.WindowDuration)
	if err != nil {
		return a.fail(result, err)
	}

	// Suppress the structural line, then isolate the belt band. Both
	// cascades are designed purely from the sample rate and applied
	// zero-phase so ringing cannot shift energy within the short window.
	notchCoef, err := filters.Notch(cfg.NotchFrequency, cfg.NotchQ, series.SampleRate)
	if err != nil {
		return a.fail(result, err)
	}
	notched := filters.NewCascade([]filters.Coefficients{notchCoef}).ProcessZeroPhase(window)

	bandCoefs, err := filters.ButterworthBandpass(cfg.BandLow, cfg.BandHigh,
		series.SampleRate, cfg.BandpassOrder)
	if err != nil {
		return a.fail(result, err)
	}
	filtered := filters.NewCascade(bandCoefs).ProcessZeroPhase(notched)

	band := spectral.Band{Low: cfg.BandLow, High: cfg.BandHigh}

	// Coarse anchor from the Welch PSD. An expected-frequency hint narrows
	// this search; the refinement below still centers on the coarse result.
	coarseBand := band
	if cfg.ExpectedFrequency > 0 {
		coarseBand = spectral.Band{
			Low:  math.Max(cfg.ExpectedFrequency-cfg.HintRadius, band.Low),
			High: math.Min(cfg.ExpectedFrequency+cfg.HintRadius, band.High),
		}
		if coarseBand.Low > coarseBand.High {
			coarseBand = band
		}
	}

	welch := spectral.NewWelch(series.SampleRate, cfg.WelchSegmentFraction, cfg.WelchOverlap)
	psdFreqs, psdPower := welch.Compute(filtered)
	psdIdx, ok := spectral.MaxInBand(psdFreqs, psdPower, coarseBand)
	if !ok {
		return a.fail(result, &NoPeakFoundError{Reason: "no PSD bins inside the belt band"})
	}
	result.PSDEstimate = psdFreqs[psdIdx]

	a.logger.Debug("coarse estimate", logging.Fields{"psd_estimate": result.PSDEstimate})

	// Fine spectrum and sub-bin refinement near the coarse anchor.
	highres := spectral.NewHighRes(series.SampleRate, cfg.FFTLength)
	fftFreqs, fftMagnitude := highres.Compute(filtered)

	frequency, ok := spectral.RefinePeak(fftFreqs, fftMagnitude,
		result.PSDEstimate, cfg.SearchRadius, band)
	if !ok {
		return a.fail(result, &NoPeakFoundError{Reason: "no FFT bins inside the belt band"})
	}

	q := spectral.QFactor(fftFreqs, fftMagnitude, frequency, band)

	result.Frequency = frequency
	result.QFactor = q
	result.Confidence = ConfidenceForQ(q)

	a.logger.Debug("analysis complete", logging.Fields{
		"belt":       belt,
		"frequency":  frequency,
		"q_factor":   q,
		"confidence": result.Confidence,
	})

	return result
}

// fail normalizes a stage error into the result record, keeping whatever
// diagnostics were computed before the failure.
func (a *Analyzer) fail(result *Result, err error) *Result {
	a.logger.Debug("analysis failed", logging.Fields{"belt": result.Belt, "reason": err.Error()})
	result.Error = err.Error()
	result.Frequency = 0
	result.QFactor = 0
	result.Confidence = ""
	return result
}
