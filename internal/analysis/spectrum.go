package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooFewSamples = errors.New("analysis: need at least 4 samples")
	ErrNoSignal      = errors.New("analysis: signal has no periodic component")
	ErrBadInterval   = errors.New("analysis: sample interval must be positive")
)

// PowerSpectrum returns |X_k|^2 for k in [0, n/2] of the mean-removed
// signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		a := cmplx.Abs(coeffs[i])
		ps[i] = a * a
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency bin
// of a signal sampled every dt.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooFewSamples
	}
	if !(dt > 0) {
		return 0, ErrBadInterval
	}
	k := peakBin(PowerSpectrum(data))
	if k == 0 {
		return 0, ErrNoSignal
	}
	return float64(len(data)) * dt / float64(k), nil
}

func peakBin(ps []float64) int {
	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	return best
}
