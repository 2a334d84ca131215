package ndcontainer

import "fmt"

// Proxy is a non-owning, recursive strided view over a flat backing slice.
// Indexing along the outermost axis (Index) peels off one axis and returns a
// Proxy of rank-1, exactly mirroring yato::container_nd's operator[]; at
// rank 0 a Proxy denotes a single addressable element, read via Elem/Ptr.
//
// A Proxy is a small value type (a slice header, an offset and a descriptor
// slice) and is cheap to pass and return by value; it never copies the
// underlying data.
type Proxy[T any] struct {
	data   []T
	offset int
	descs  []DimensionDescriptor
}

// NewProxy wraps data as a contiguous, row-major Proxy of the given shape.
// len(data) must equal shape's total size.
func NewProxy[T any](data []T, shape ...int) (Proxy[T], error) {
	if err := validateShape(shape); err != nil {
		return Proxy[T]{}, err
	}
	descs := computeDescriptors(shape)
	if descriptorTotalSize(descs) != len(data) {
		return Proxy[T]{}, fmt.Errorf("%w: shape total %d does not match data length %d",
			ErrShapeMismatch, descriptorTotalSize(descs), len(data))
	}
	return Proxy[T]{data: data, descs: descs}, nil
}

// Rank is the number of remaining axes; 0 denotes a single element.
func (p Proxy[T]) Rank() int { return len(p.descs) }

// Dimensions returns the extent of each remaining axis, outermost first.
func (p Proxy[T]) Dimensions() []int { return descriptorShape(p.descs) }

// TotalSize is the number of logical elements addressable through p.
func (p Proxy[T]) TotalSize() int { return descriptorTotalSize(p.descs) }

// TotalStored is the number of backing slots the outermost axis spans,
// i.e. size(0) * stride(0); for a rank-0 Proxy this is 1.
func (p Proxy[T]) TotalStored() int {
	if len(p.descs) == 0 {
		return 1
	}
	return p.descs[0].Size * p.descs[0].Stride
}

// Continuous reports whether p addresses a single unbroken run of data, i.e.
// whether it can be flattened via Flatten without copying.
func (p Proxy[T]) Continuous() bool { return descriptorsContinuous(p.descs) }

// Kind implements Traits.
func (p Proxy[T]) Kind() Category {
	if p.Continuous() {
		return CategoryContinuous
	}
	return CategoryStrided
}

// Index peels off the outermost axis at logical position i, returning the
// rank-1 sub-Proxy (or, from a rank-1 Proxy, the rank-0 Proxy denoting a
// single element). It is the Go analogue of operator[].
func (p Proxy[T]) Index(i int) (Proxy[T], error) {
	if len(p.descs) == 0 {
		return Proxy[T]{}, fmt.Errorf("%w: Index called on a rank-0 Proxy", ErrBadState)
	}
	if i < 0 || i >= p.descs[0].Size {
		return Proxy[T]{}, fmt.Errorf("%w: index %d out of [0,%d)", ErrOutOfRange, i, p.descs[0].Size)
	}
	return p.unsafeIndex(i), nil
}

// unsafeIndex peels off the outermost axis without bounds checking. It is
// used internally by Load for every sampler policy, once the sampler has
// checked or transformed the index.
func (p Proxy[T]) unsafeIndex(i int) Proxy[T] {
	newOffset := p.offset + i*p.descs[0].Stride
	if len(p.descs) == 1 {
		return Proxy[T]{data: p.data, offset: newOffset}
	}
	return Proxy[T]{data: p.data, offset: newOffset, descs: p.descs[1:]}
}

// Elem returns the element a rank-0 Proxy denotes.
func (p Proxy[T]) Elem() (T, error) {
	var zero T
	if len(p.descs) != 0 {
		return zero, fmt.Errorf("%w: Elem called on a rank-%d Proxy, expected rank 0", ErrBadState, len(p.descs))
	}
	return p.data[p.offset], nil
}

// SetElem overwrites the element a rank-0 Proxy denotes.
func (p Proxy[T]) SetElem(v T) error {
	if len(p.descs) != 0 {
		return fmt.Errorf("%w: SetElem called on a rank-%d Proxy, expected rank 0", ErrBadState, len(p.descs))
	}
	p.data[p.offset] = v
	return nil
}

// Ptr returns a pointer to the element a rank-0 Proxy denotes, letting
// callers mutate in place without a separate SetElem round trip.
func (p Proxy[T]) Ptr() (*T, error) {
	if len(p.descs) != 0 {
		return nil, fmt.Errorf("%w: Ptr called on a rank-%d Proxy, expected rank 0", ErrBadState, len(p.descs))
	}
	return &p.data[p.offset], nil
}

// At descends through indices, one per axis, and returns the addressed
// element. len(indices) must equal p.Rank().
func (p Proxy[T]) At(indices ...int) (T, error) {
	var zero T
	if len(indices) != len(p.descs) {
		return zero, fmt.Errorf("%w: At called with %d indices for rank %d",
			ErrInvalidArgument, len(indices), len(p.descs))
	}
	cur := p
	for _, idx := range indices {
		next, err := cur.Index(idx)
		if err != nil {
			return zero, err
		}
		cur = next
	}
	return cur.Elem()
}

// Flatten returns the backing elements p addresses as a single slice; it is
// only valid when Continuous reports true (otherwise the elements are not
// contiguous in memory and no such slice exists).
func (p Proxy[T]) Flatten() ([]T, error) {
	if !p.Continuous() {
		return nil, fmt.Errorf("%w: Flatten requires a continuous Proxy", ErrBadState)
	}
	n := p.TotalSize()
	return p.data[p.offset : p.offset+n], nil
}
