package rdke

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for missing or unparseable scenario fields.
	ErrConfig = errors.New("rdke: invalid configuration")
	// ErrTableFormat is returned when a lookup table resource cannot be parsed.
	ErrTableFormat = errors.New("rdke: malformed lookup table")
	// ErrTableOrder is returned when lookup table keys are not strictly ascending.
	ErrTableOrder = errors.New("rdke: lookup table keys not strictly ascending")
	// ErrDegenerateGeometry flags a position too close to the body center for a direction to exist.
	ErrDegenerateGeometry = errors.New("rdke: degenerate geometry")
	// ErrNumerical flags a NaN or infinite quantity caught by a guard.
	ErrNumerical = errors.New("rdke: numerical degeneracy")
	// ErrInvalidParameter is returned for physically meaningless parameters (e.g. zero mass).
	ErrInvalidParameter = errors.New("rdke: invalid parameter")
	// ErrArchive wraps failures of the archive writer.
	ErrArchive = errors.New("rdke: archive failure")
)

// SimulationError locates an error within a run.
type SimulationError struct {
	Step uint64
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6fs): %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}
