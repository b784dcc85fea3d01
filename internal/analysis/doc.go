// Package analysis characterizes recorded and live n-body runs.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral period of a sampled signal
//   - [OrbitalPeriods]: per-body period from stored frames
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// A positive largest Lyapunov exponent indicates chaotic motion:
//
//	lambda, err := analysis.LyapunovExponent(u, stepper, 5000, 1e-4)
//	if err == nil && lambda > 0 {
//	    // nearby configurations diverge exponentially
//	}
package analysis
