package ndcontainer

import "fmt"

// ArrayND is an owning, fixed-shape N-dimensional container: its rank and
// per-axis extents are set once at construction and never change. It
// mirrors the fixed-shape counterpart to VectorND in the original
// implementation, trading resizability for a simpler, allocation-free
// lifetime after construction.
type ArrayND[T any] struct {
	data  []T
	shape Dimensionality
}

// NewArrayND constructs a zero-valued ArrayND of the given shape.
func NewArrayND[T any](shape ...int) (*ArrayND[T], error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	dims := Dimensionality(shape).Clone()
	return &ArrayND[T]{
		data:  make([]T, dims.TotalSize()),
		shape: dims,
	}, nil
}

// NewArrayNDFilled constructs an ArrayND of the given shape with every
// element set to fill.
func NewArrayNDFilled[T any](fill T, shape ...int) (*ArrayND[T], error) {
	a, err := NewArrayND[T](shape...)
	if err != nil {
		return nil, err
	}
	for i := range a.data {
		a.data[i] = fill
	}
	return a, nil
}

// Rank is the number of axes.
func (a *ArrayND[T]) Rank() int { return a.shape.Rank() }

// Dimensions returns a copy of the shape, outermost axis first.
func (a *ArrayND[T]) Dimensions() []int { return a.shape.Clone() }

// TotalSize is the number of elements; fixed at construction.
func (a *ArrayND[T]) TotalSize() int { return len(a.data) }

// Continuous is always true.
func (a *ArrayND[T]) Continuous() bool { return true }

// Kind implements Traits.
func (a *ArrayND[T]) Kind() Category { return CategoryContinuous }

// asProxy returns a Proxy over a's backing storage.
func (a *ArrayND[T]) asProxy() Proxy[T] {
	return Proxy[T]{data: a.data, descs: computeDescriptors(a.shape)}
}

// At returns the element addressed by indices, one per axis.
func (a *ArrayND[T]) At(indices ...int) (T, error) {
	return a.asProxy().At(indices...)
}

// Index peels off the outermost axis, returning a Proxy over the rest.
func (a *ArrayND[T]) Index(i int) (Proxy[T], error) {
	return a.asProxy().Index(i)
}

// Flatten returns the live backing slice; mutating it mutates a.
func (a *ArrayND[T]) Flatten() []T { return a.data }

// Fill overwrites every element with v.
func (a *ArrayND[T]) Fill(v T) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Reshape returns a new ArrayND reinterpreting the same elements under a
// different shape; TotalSize must be unchanged. The returned array owns an
// independent copy of the data.
func (a *ArrayND[T]) Reshape(shape ...int) (*ArrayND[T], error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	dims := Dimensionality(shape).Clone()
	if dims.TotalSize() != len(a.data) {
		return nil, fmt.Errorf("%w: reshape to %v (%d elements) from %d elements",
			ErrShapeMismatch, shape, dims.TotalSize(), len(a.data))
	}
	newData := make([]T, len(a.data))
	copy(newData, a.data)
	return &ArrayND[T]{data: newData, shape: dims}, nil
}

// Range yields each outer-axis slice as a Proxy, outermost index first.
func (a *ArrayND[T]) Range(yield func(int, Proxy[T]) bool) {
	p := a.asProxy()
	outer := 0
	if a.shape.Rank() > 0 {
		outer = a.shape[0]
	}
	for i := 0; i < outer; i++ {
		sub, err := p.Index(i)
		if err != nil {
			return
		}
		if !yield(i, sub) {
			return
		}
	}
}
