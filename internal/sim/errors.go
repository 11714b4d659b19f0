package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEngines indicates a simulator built without any stepper.
	ErrNoEngines = errors.New("sim: no engines configured")
)

// SimulationError wraps an engine failure with the step it happened on.
type SimulationError struct {
	Step int
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}
