// Package nbody implements a fixed-timestep gravitational N-body integrator
// in single precision.
//
// The package has two parts:
//
//   - [Universe]: a closed, fixed-size store of [Body] values plus the
//     gravitational constant G. Bodies are addressed by integer index.
//   - [Stepper]: advances a Universe by one tick in three phases,
//     acceleration accumulation, velocity integration and position
//     integration, each completing before the next begins.
//
// # Example
//
//	u, err := nbody.NewUniverse(1.0, specs)
//	if err != nil {
//	    return err
//	}
//	st, _ := nbody.NewStepper(0.01)
//	for i := 0; i < 1000; i++ {
//	    st.Step(u, 0.01)
//	}
//	p := u.Position(0)
//
// # Numerical policy
//
// Forces are evaluated once per unordered pair and applied with opposite
// sign to both bodies. A pair whose separation cannot be normalised
// (coincident positions, overflow, NaN) contributes no force for that tick.
// Invalid setup input is rejected by [NewUniverse]; once a universe exists
// no step can fail.
//
// # Thread Safety
//
// A Universe is not safe for concurrent use. Step it from one goroutine and
// only read positions between ticks.
package nbody
