package ndcontainer

import "fmt"

// VectorND is an owning, resizable N-dimensional container laid out as one
// contiguous row-major backing slice, mirroring yato::vector_nd. Mutating
// operations (Reserve, Resize, PushBack, Insert, Erase, Reshape) build their
// replacement storage into a local variable and only assign it to the
// receiver once every step has succeeded, so a failed mutation leaves v
// exactly as it was before the call (the Go analogue of the original's
// strong exception safety guarantee, expressed as error returns instead of
// unwinding).
type VectorND[T any] struct {
	data  []T
	shape Dimensionality
}

// NewVectorND constructs a VectorND of the given shape, every element
// zero-valued.
func NewVectorND[T any](shape ...int) (*VectorND[T], error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	dims := Dimensionality(shape).Clone()
	return &VectorND[T]{
		data:  make([]T, dims.TotalSize()),
		shape: dims,
	}, nil
}

// NewVectorNDFilled constructs a VectorND of the given shape with every
// element set to fill.
func NewVectorNDFilled[T any](fill T, shape ...int) (*VectorND[T], error) {
	v, err := NewVectorND[T](shape...)
	if err != nil {
		return nil, err
	}
	for i := range v.data {
		v.data[i] = fill
	}
	return v, nil
}

// Rank is the number of axes.
func (v *VectorND[T]) Rank() int { return v.shape.Rank() }

// Dimensions returns a copy of the current shape, outermost axis first.
func (v *VectorND[T]) Dimensions() []int { return v.shape.Clone() }

// TotalSize is the number of logical elements currently held.
func (v *VectorND[T]) TotalSize() int { return len(v.data) }

// Continuous is always true: VectorND's backing storage is one contiguous
// run by construction.
func (v *VectorND[T]) Continuous() bool { return true }

// Kind implements Traits.
func (v *VectorND[T]) Kind() Category { return CategoryContinuous }

// innerSize is the number of elements spanned by one step along the
// outermost axis, i.e. the product of every axis size after the first.
func (v *VectorND[T]) innerSize() int {
	if v.shape.Rank() <= 1 {
		return 1
	}
	n := 1
	for _, s := range v.shape[1:] {
		n *= s
	}
	return n
}

// outerCapacity is how many outermost-axis slots the current backing array
// could hold without reallocating.
func (v *VectorND[T]) outerCapacity() int {
	inner := v.innerSize()
	if inner == 0 {
		return 0
	}
	return cap(v.data) / inner
}

// asProxy returns a Proxy over v's current backing storage.
func (v *VectorND[T]) asProxy() Proxy[T] {
	return Proxy[T]{data: v.data, descs: computeDescriptors(v.shape)}
}

// At returns the element addressed by indices, one per axis.
func (v *VectorND[T]) At(indices ...int) (T, error) {
	return v.asProxy().At(indices...)
}

// Index peels off the outermost axis, returning a Proxy over the rest.
func (v *VectorND[T]) Index(i int) (Proxy[T], error) {
	return v.asProxy().Index(i)
}

// Flatten returns the live backing slice; mutating it mutates v.
func (v *VectorND[T]) Flatten() []T { return v.data }

// Reserve ensures at least n outer-axis slots fit without reallocating,
// preserving every currently held element. It never shrinks capacity.
func (v *VectorND[T]) Reserve(n int) error {
	if n < 0 {
		return ErrInvalidArgument
	}
	if n <= v.outerCapacity() {
		return nil
	}
	inner := v.innerSize()
	newData := make([]T, len(v.data), n*inner)
	copy(newData, v.data)
	v.data = newData
	log.Debugf("ndcontainer: reserved %d outer slots (inner size %d)", n, inner)
	return nil
}

// ShrinkToFit releases any spare capacity beyond what the current shape
// needs.
func (v *VectorND[T]) ShrinkToFit() {
	if cap(v.data) == len(v.data) {
		return
	}
	newData := make([]T, len(v.data))
	copy(newData, v.data)
	v.data = newData
}

// Resize changes only the outermost axis's extent to newOuter, preserving
// elements in every retained outer slot and filling any newly added slots
// with fill. Rank is unchanged.
func (v *VectorND[T]) Resize(newOuter int, fill T) error {
	if newOuter < 0 {
		return ErrInvalidArgument
	}
	inner := v.innerSize()
	newTotal := newOuter * inner

	newData := make([]T, newTotal)
	copyCount := min(len(v.data), newTotal)
	copy(newData, v.data[:copyCount])
	for i := copyCount; i < newTotal; i++ {
		newData[i] = fill
	}

	newShape := v.shape.Clone()
	if len(newShape) == 0 {
		newShape = Dimensionality{newOuter}
	} else {
		newShape[0] = newOuter
	}

	v.data = newData
	v.shape = newShape
	return nil
}

// ResizeShape replaces the entire shape, discarding all prior contents and
// filling every element with fill. Rank may change.
func (v *VectorND[T]) ResizeShape(fill T, shape ...int) error {
	if err := validateShape(shape); err != nil {
		return err
	}
	dims := Dimensionality(shape).Clone()
	newData := make([]T, dims.TotalSize())
	for i := range newData {
		newData[i] = fill
	}

	v.data = newData
	v.shape = dims
	return nil
}

// Reshape returns a new VectorND over the same elements in a different
// shape (row-major reinterpretation); TotalSize must be unchanged. The
// returned vector owns an independent copy of the data.
func (v *VectorND[T]) Reshape(shape ...int) (*VectorND[T], error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	dims := Dimensionality(shape).Clone()
	if dims.TotalSize() != len(v.data) {
		return nil, fmt.Errorf("%w: reshape to %v (%d elements) from %d elements",
			ErrShapeMismatch, shape, dims.TotalSize(), len(v.data))
	}
	newData := make([]T, len(v.data))
	copy(newData, v.data)
	return &VectorND[T]{data: newData, shape: dims}, nil
}

// ReshapeInPlace reinterprets v's existing storage under a new shape without
// copying; TotalSize must be unchanged.
func (v *VectorND[T]) ReshapeInPlace(shape ...int) error {
	if err := validateShape(shape); err != nil {
		return err
	}
	dims := Dimensionality(shape).Clone()
	if dims.TotalSize() != len(v.data) {
		return fmt.Errorf("%w: reshape to %v (%d elements) from %d elements",
			ErrShapeMismatch, shape, dims.TotalSize(), len(v.data))
	}
	v.shape = dims
	return nil
}

// innerShape reports the axes every outer-axis slice must match (every axis
// but the outermost); for a rank-1 vector each slice is a single scalar, so
// innerShape is empty.
func (v *VectorND[T]) innerShape() Dimensionality {
	if v.shape.Rank() <= 1 {
		return Dimensionality{}
	}
	return v.shape[1:].Clone()
}

// PushBack appends one outer-axis slice, given as a flattened row-major
// slice of exactly v.innerSize() elements. If v currently has outer extent
// 0 and no established inner shape (rank 1, e.g. freshly constructed with
// NewVectorND(0)), subShape establishes the inner dimensions going forward;
// otherwise subShape must match the existing inner shape.
func (v *VectorND[T]) PushBack(sub []T, subShape ...int) error {
	prevShape := v.shape
	if v.shape.Rank() == 1 && v.shape[0] == 0 && len(subShape) > 0 {
		v.shape = append(Dimensionality{0}, Dimensionality(subShape).Clone()...)
	}
	if len(subShape) > 0 && !Dimensionality(subShape).Equal(v.innerShape()) {
		err := fmt.Errorf("%w: pushed element shape %v does not match inner shape %v",
			ErrShapeMismatch, subShape, v.innerShape())
		v.shape = prevShape
		return err
	}
	inner := v.innerSize()
	if len(sub) != inner {
		v.shape = prevShape
		return fmt.Errorf("%w: pushed %d elements, inner size is %d", ErrShapeMismatch, len(sub), inner)
	}

	newOuter := v.shape[0] + 1
	if newOuter > v.outerCapacity() {
		growTo := newOuter * 2
		if err := v.Reserve(growTo); err != nil {
			return err
		}
	}

	newData := append(v.data, sub...)

	v.data = newData
	v.shape[0] = newOuter
	return nil
}

// PopBack removes the last outer-axis slice. It is a no-op error if v is
// already empty along its outermost axis.
func (v *VectorND[T]) PopBack() error {
	if v.shape.Rank() == 0 || v.shape[0] == 0 {
		return fmt.Errorf("%w: PopBack on an empty VectorND", ErrBadState)
	}
	inner := v.innerSize()
	v.data = v.data[:len(v.data)-inner]
	v.shape[0]--
	return nil
}

// Insert inserts count copies of sub, a flattened row-major slice of
// v.innerSize() elements, before outer-axis position pos.
func (v *VectorND[T]) Insert(pos int, sub []T, count int) error {
	if count < 0 {
		return ErrInvalidArgument
	}
	if pos < 0 || pos > v.shape[0] {
		return fmt.Errorf("%w: insert position %d out of [0,%d]", ErrOutOfRange, pos, v.shape[0])
	}
	if count == 0 {
		return nil
	}
	inner := v.innerSize()
	if len(sub) != inner {
		return fmt.Errorf("%w: inserted %d elements, inner size is %d", ErrShapeMismatch, len(sub), inner)
	}

	newOuter := v.shape[0] + count
	newData := make([]T, newOuter*inner)

	copy(newData, v.data[:pos*inner])
	for i := 0; i < count; i++ {
		copy(newData[(pos+i)*inner:], sub)
	}
	copy(newData[(pos+count)*inner:], v.data[pos*inner:])

	v.data = newData
	v.shape[0] = newOuter
	return nil
}

// InsertRange inserts len(subs) distinct flattened sub-vectors, each
// v.innerSize() elements, before outer-axis position pos, preserving the
// order they're given in. This is the range form of Insert: where Insert
// places count copies of one sub-vector, InsertRange places one copy each
// of count distinct sub-vectors, matching the original's iterator-range
// insert overload (as opposed to its single-value/count overload).
func (v *VectorND[T]) InsertRange(pos int, subs [][]T) error {
	if pos < 0 || pos > v.shape[0] {
		return fmt.Errorf("%w: insert position %d out of [0,%d]", ErrOutOfRange, pos, v.shape[0])
	}
	if len(subs) == 0 {
		return nil
	}
	inner := v.innerSize()
	for i, sub := range subs {
		if len(sub) != inner {
			return fmt.Errorf("%w: sub-vector %d has %d elements, inner size is %d",
				ErrShapeMismatch, i, len(sub), inner)
		}
	}

	count := len(subs)
	newOuter := v.shape[0] + count
	newData := make([]T, newOuter*inner)

	copy(newData, v.data[:pos*inner])
	for i, sub := range subs {
		copy(newData[(pos+i)*inner:], sub)
	}
	copy(newData[(pos+count)*inner:], v.data[pos*inner:])

	v.data = newData
	v.shape[0] = newOuter
	return nil
}

// Erase removes the outer-axis slices in [first, last), returning the outer
// index of the element now occupying position first (the Go analogue of the
// original's "iterator to the element following the erased range").
func (v *VectorND[T]) Erase(first, last int) (int, error) {
	if first < 0 || last > v.shape[0] || first > last {
		return 0, fmt.Errorf("%w: erase range [%d,%d) invalid for outer size %d",
			ErrInvalidArgument, first, last, v.shape[0])
	}
	if first == last {
		return first, nil
	}
	inner := v.innerSize()
	removed := last - first

	newOuter := v.shape[0] - removed
	newData := make([]T, newOuter*inner)
	copy(newData, v.data[:first*inner])
	copy(newData[first*inner:], v.data[last*inner:])

	v.data = newData
	v.shape[0] = newOuter
	return first, nil
}

// Clear empties v back to outer extent 0, preserving rank and inner shape.
func (v *VectorND[T]) Clear() {
	v.data = v.data[:0]
	if v.shape.Rank() > 0 {
		v.shape[0] = 0
	}
}

// Range yields each outer-axis slice as a Proxy, outermost index first.
func (v *VectorND[T]) Range(yield func(int, Proxy[T]) bool) {
	p := v.asProxy()
	outer := 0
	if v.shape.Rank() > 0 {
		outer = v.shape[0]
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
