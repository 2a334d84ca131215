// Package ndcontainer implements the strided-view / owning-vector container
// family: Proxy (non-owning recursive view), VectorND (owning, resizable),
// ArrayND (owning, fixed-shape), plus the trait classification and
// boundary-policy sampler facilities layered on top of them.
//
// The original C++ implementation (yato::vector_nd et al.) expresses
// out-of-bounds access and failed preconditions as thrown exceptions. Go has
// no exceptions, so every operation that can fail returns an error instead;
// mutators that can partially fail are staged so that an error leaves the
// receiver entirely unchanged (see vector_nd.go's commit-at-the-end pattern).
package ndcontainer

import "errors"

var (
	// ErrOutOfRange is returned when an index falls outside [0, size) for
	// its axis.
	ErrOutOfRange = errors.New("ndcontainer: index out of range")

	// ErrShapeMismatch is returned when an operand's dimensions don't
	// match what the receiver requires (e.g. PushBack of a slice whose
	// inner dimensions don't match the vector's established inner shape).
	ErrShapeMismatch = errors.New("ndcontainer: shape mismatch")

	// ErrBadState is returned when an operation is attempted against a
	// Proxy at the wrong rank (e.g. calling Elem on a Proxy with rank > 0,
	// or Index on a rank-0 Proxy).
	ErrBadState = errors.New("ndcontainer: invalid state for operation")

	// ErrInvalidArgument is returned for malformed arguments: a negative
	// dimension, an empty shape, an insert count < 0, or a
	// [first,last) range with first > last.
	ErrInvalidArgument = errors.New("ndcontainer: invalid argument")
)
