package ndcontainer

import "fmt"

// outcome tells Load what to do once an axis's CheckIndex has rejected the
// raw index: invalidOutcome stops and returns an error, boundaryOutcome
// stops and returns the sampler's boundary value, transformOutcome proceeds
// to descend using whatever TransformIndex produces.
type outcome int

const (
	invalidOutcome outcome = iota
	boundaryOutcome
	transformOutcome
)

// Sampler is a per-axis boundary policy applied while descending through a
// Proxy in Load: it decides whether a raw index is in range and, if not,
// what index (or fallback value) to use instead. This mirrors the four
// access policies (default, no_check, clamp, zero) the boundary-policy
// samplers in the original implementation provide over a container.
type Sampler[T any] interface {
	// CheckIndex reports whether raw is within [0, size).
	CheckIndex(raw, size int) bool

	// TransformIndex maps raw into the index actually used to descend.
	// Only consulted when CheckIndex fails and Outcome is
	// transformOutcome, or when CheckIndex succeeds (identity in that
	// case for every built-in sampler).
	TransformIndex(raw, size int) int

	// outcome reports what Load should do when CheckIndex(raw, size)
	// is false.
	outcome() outcome

	// BoundaryValue is returned by Load in place of descending further,
	// for samplers whose outcome() is boundaryOutcome.
	BoundaryValue() T
}

// DefaultSampler rejects any out-of-range index with an error: the same
// strict bounds checking that Proxy.At applies.
type DefaultSampler[T any] struct{}

// NewDefaultSampler returns the strict bounds-checking sampler.
func NewDefaultSampler[T any]() DefaultSampler[T] { return DefaultSampler[T]{} }

func (DefaultSampler[T]) CheckIndex(raw, size int) bool       { return raw >= 0 && raw < size }
func (DefaultSampler[T]) TransformIndex(raw, _ int) int       { return raw }
func (DefaultSampler[T]) outcome() outcome                    { return invalidOutcome }
func (DefaultSampler[T]) BoundaryValue() T                     { var zero T; return zero }

// NoCheckSampler skips bounds checking entirely: the fastest policy, with
// out-of-range access left as the caller's responsibility (it may read
// adjacent elements or panic on a wildly out-of-range offset, exactly as an
// unchecked C-array index would).
type NoCheckSampler[T any] struct{}

// NewNoCheckSampler returns the unchecked-access sampler.
func NewNoCheckSampler[T any]() NoCheckSampler[T] { return NoCheckSampler[T]{} }

func (NoCheckSampler[T]) CheckIndex(int, int) bool      { return true }
func (NoCheckSampler[T]) TransformIndex(raw, _ int) int { return raw }
func (NoCheckSampler[T]) outcome() outcome              { return transformOutcome }
func (NoCheckSampler[T]) BoundaryValue() T              { var zero T; return zero }

// ClampSampler maps any out-of-range index to the nearest valid one (0 or
// size-1), so access never fails.
type ClampSampler[T any] struct{}

// NewClampSampler returns the clamping sampler.
func NewClampSampler[T any]() ClampSampler[T] { return ClampSampler[T]{} }

func (ClampSampler[T]) CheckIndex(raw, size int) bool { return raw >= 0 && raw < size }
func (ClampSampler[T]) outcome() outcome              { return transformOutcome }
func (ClampSampler[T]) BoundaryValue() T              { var zero T; return zero }
func (ClampSampler[T]) TransformIndex(raw, size int) int {
	switch {
	case raw < 0:
		return 0
	case raw >= size:
		return size - 1
	default:
		return raw
	}
}

// ZeroSampler returns a fixed boundary value for any out-of-range read
// instead of failing or clamping; it is only meaningful for reads (Load),
// not writes.
type ZeroSampler[T any] struct {
	boundary T
}

// NewZeroSampler returns a sampler that yields boundary for any access whose
// raw index falls outside an axis's range.
func NewZeroSampler[T any](boundary T) ZeroSampler[T] { return ZeroSampler[T]{boundary: boundary} }

func (ZeroSampler[T]) CheckIndex(raw, size int) bool   { return raw >= 0 && raw < size }
func (ZeroSampler[T]) TransformIndex(raw, _ int) int   { return raw }
func (ZeroSampler[T]) outcome() outcome                { return boundaryOutcome }
func (s ZeroSampler[T]) BoundaryValue() T              { return s.boundary }

// Load descends through p one axis per index in indices, applying sampler's
// boundary policy at every axis, and returns the addressed element (or the
// sampler's boundary value, for a ZeroSampler hitting an out-of-range
// index). len(indices) must equal p.Rank().
func Load[T any](p Proxy[T], sampler Sampler[T], indices ...int) (T, error) {
	var zero T
	if len(indices) != p.Rank() {
		return zero, fmt.Errorf("%w: Load called with %d indices for rank %d",
			ErrInvalidArgument, len(indices), p.Rank())
	}

	cur := p
	for _, raw := range indices {
		size := cur.descs[0].Size
		if !sampler.CheckIndex(raw, size) {
			switch sampler.outcome() {
			case boundaryOutcome:
				return sampler.BoundaryValue(), nil
			case transformOutcome:
				// fall through to descend with the transformed index
			default:
				return zero, fmt.Errorf("%w: index %d out of [0,%d)", ErrOutOfRange, raw, size)
			}
		}
		idx := sampler.TransformIndex(raw, size)
		cur = cur.unsafeIndex(idx)
	}
	return cur.Elem()
}
