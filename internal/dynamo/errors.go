package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidDefinition indicates a projectile definition that would produce
	// non-finite accelerations (zero mass, area, radius or inertia).
	ErrInvalidDefinition = errors.New("dynamo: invalid projectile definition")

	// ErrInvalidProfile indicates a force profile with a negative duration or
	// a missing impulse curve.
	ErrInvalidProfile = errors.New("dynamo: invalid force profile")

	// ErrUnknownProfile indicates a force profile id missing from the catalog.
	ErrUnknownProfile = errors.New("dynamo: unknown force profile")

	// ErrUnknownProjectile indicates a projectile id missing from the catalog.
	ErrUnknownProjectile = errors.New("dynamo: unknown projectile")

	// ErrInvalidConfig indicates engine step bounds or thresholds out of range.
	ErrInvalidConfig = errors.New("dynamo: invalid engine configuration")
)

// DefinitionError names the field that failed validation.
type DefinitionError struct {
	ID      string
	Field   string
	Value   float64
	Wrapped error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%v: %s.%s = %g", e.Wrapped, e.ID, e.Field, e.Value)
}

func (e *DefinitionError) Unwrap() error {
	return e.Wrapped
}
