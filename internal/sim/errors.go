package sim

import (
	"errors"
	"fmt"
)

// Engine-level failure modes.
var (
	// ErrInvalidState indicates NaN or Inf appeared in the state vector.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive substep underflowed while
	// trying to meet the error tolerance.
	ErrStepTooSmall = errors.New("sim: adaptive substep below minimum")

	// ErrTimeReversed indicates an Advance target earlier than the clock.
	ErrTimeReversed = errors.New("sim: target time before current time")
)

// IntegrationError reports a fatal engine failure together with the
// simulation time and, when identifiable, the offending body index.
type IntegrationError struct {
	Time    float64
	Body    int // -1 when no single body is implicated
	Wrapped error
}

func (e *IntegrationError) Error() string {
	if e.Body >= 0 {
		return fmt.Sprintf("integration failed at t=%.6g (body %d): %v", e.Time, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("integration failed at t=%.6g: %v", e.Time, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
