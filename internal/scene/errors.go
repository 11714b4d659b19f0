package scene

import (
	"errors"
	"fmt"
)

// Configuration faults reported by [Scene.Validate].
var (
	// ErrInvalidMass indicates a non-static, collidable object whose mass is
	// not a positive finite number.
	ErrInvalidMass = errors.New("scene: non-static object requires positive mass")

	// ErrNegativeRadius indicates a particle with a negative radius.
	ErrNegativeRadius = errors.New("scene: particle radius must be non-negative")

	// ErrNegativeExtents indicates a rigidbody with a negative half extent.
	ErrNegativeExtents = errors.New("scene: rigidbody half extents must be non-negative")

	// ErrInvalidLayer indicates a collision layer that cannot index the mask.
	ErrInvalidLayer = errors.New("scene: collision layer out of range")
)

// Kind names the sequence an object lives in.
type Kind string

const (
	KindParticle  Kind = "particle"
	KindRigidbody Kind = "rigidbody"
)

// ObjectError wraps a configuration fault with the offending object.
type ObjectError struct {
	Kind  Kind
	Index int
	Err   error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}
