package nbody

import (
	"errors"
	"fmt"
)

// Setup errors. The kernel itself has no runtime error conditions.
var (
	// ErrNoBodies indicates an empty setup list.
	ErrNoBodies = errors.New("nbody: universe has no bodies")

	// ErrNonPositiveMass indicates a body with mass <= 0.
	ErrNonPositiveMass = errors.New("nbody: mass must be positive")

	// ErrNonFinite indicates a NaN or infinite value in the setup or state.
	ErrNonFinite = errors.New("nbody: non-finite value (NaN or Inf)")

	// ErrInvalidTimestep indicates a fixed step that is not a positive finite number.
	ErrInvalidTimestep = errors.New("nbody: timestep must be positive and finite")

	// ErrInvalidGravity indicates a gravitational constant that is not a positive finite number.
	ErrInvalidGravity = errors.New("nbody: gravitational constant must be positive and finite")
)

// SetupError reports which body of a setup list was rejected.
type SetupError struct {
	Index int
	Name  string
	Err   error
}

func (e *SetupError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("body %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("body %d: %v", e.Index, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
