package ndcontainer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVectorNDAtRoundTrip verifies that values written through Index/SetElem
// are visible through At, across a 3-D shape.
func TestVectorNDAtRoundTrip(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 3, 4)
	require.NoError(t, err)
	require.Equal(t, 24, v.TotalSize())

	row, err := v.Index(1)
	require.NoError(t, err)
	cell, err := row.Index(2)
	require.NoError(t, err)
	leaf, err := cell.Index(3)
	require.NoError(t, err)
	require.NoError(t, leaf.SetElem(99))

	got, err := v.At(1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, 99, got)
}

// TestVectorNDAtOutOfRange verifies that out-of-range access returns
// ErrOutOfRange rather than panicking.
func TestVectorNDAtOutOfRange(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 2)
	require.NoError(t, err)

	_, err = v.At(5, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

// TestVectorNDResizeGrowPreservesPrefix verifies that Resize retains every
// previously held outer-axis slice and fills new ones with the supplied
// value.
func TestVectorNDResizeGrowPreservesPrefix(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 2)
	require.NoError(t, err)
	require.NoError(t, v.PushBack([]int{0, 0}))
	row0, err := v.Index(0)
	require.NoError(t, err)
	e, err := row0.Index(0)
	require.NoError(t, err)
	require.NoError(t, e.SetElem(7))

	require.NoError(t, v.Resize(4, -1))
	require.Equal(t, []int{4, 2}, v.Dimensions())

	got, err := v.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 7, got)

	got, err = v.At(3, 1)
	require.NoError(t, err)
	require.Equal(t, -1, got)
}

// TestVectorNDPushBackShapeMismatch verifies PushBack rejects a slice whose
// length doesn't match the established inner shape, and leaves the vector
// unchanged when it does.
func TestVectorNDPushBackShapeMismatch(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 3)
	require.NoError(t, err)

	err = v.PushBack([]int{1, 2})
	require.ErrorIs(t, err, ErrShapeMismatch)
	require.Equal(t, 0, v.TotalSize())

	require.NoError(t, v.PushBack([]int{1, 2, 3}))
	require.Equal(t, 3, v.TotalSize())
}

// TestVectorNDPushBackPopBack verifies the outer axis grows and shrinks by
// exactly one slice per call, and that PopBack on an empty vector errors
// instead of corrupting state.
func TestVectorNDPushBackPopBack(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 2)
	require.NoError(t, err)

	require.NoError(t, v.PushBack([]int{1, 2}))
	require.NoError(t, v.PushBack([]int{3, 4}))
	require.Equal(t, []int{2, 2}, v.Dimensions())

	require.NoError(t, v.PopBack())
	require.Equal(t, []int{1, 2}, v.Dimensions())
	got, err := v.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	require.NoError(t, v.PopBack())
	require.ErrorIs(t, v.PopBack(), ErrBadState)
}

// TestVectorNDInsertShiftsTail verifies Insert places new slices at the
// requested position and shifts every following slice back, without
// disturbing anything before it.
func TestVectorNDInsertShiftsTail(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 1)
	require.NoError(t, err)
	require.NoError(t, v.PushBack([]int{1}))
	require.NoError(t, v.PushBack([]int{2}))
	require.NoError(t, v.PushBack([]int{3}))

	require.NoError(t, v.Insert(1, []int{99}, 2))
	require.Equal(t, []int{5, 1}, v.Dimensions())

	want := []int{1, 99, 99, 2, 3}
	for i, w := range want {
		got, err := v.At(i, 0)
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
}

// TestVectorNDInsertRejectsPartialStateOnBadPosition verifies that an
// out-of-range insert position leaves the vector untouched: strong
// exception safety expressed as an unmutated receiver on error.
func TestVectorNDInsertRejectsPartialStateOnBadPosition(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 1)
	require.NoError(t, err)
	before := append([]int(nil), v.Flatten()...)

	err = v.Insert(10, []int{1}, 1)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, before, v.Flatten())
	require.Equal(t, []int{2, 1}, v.Dimensions())
}

// TestVectorNDInsertRangeDistinctSubVectors verifies InsertRange places
// each distinct sub-vector at its own position, in order, unlike Insert's
// single sub-vector repeated count times.
func TestVectorNDInsertRangeDistinctSubVectors(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 1)
	require.NoError(t, err)
	require.NoError(t, v.PushBack([]int{1}))
	require.NoError(t, v.PushBack([]int{4}))

	err = v.InsertRange(1, [][]int{{2}, {3}})
	require.NoError(t, err)
	require.Equal(t, []int{4, 1}, v.Dimensions())

	want := []int{1, 2, 3, 4}
	for i, w := range want {
		got, err := v.At(i, 0)
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
}

// TestVectorNDInsertRangeEmptyIsNoop verifies an empty sub-vector list
// leaves the vector untouched.
func TestVectorNDInsertRangeEmptyIsNoop(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 1)
	require.NoError(t, err)
	before := append([]int(nil), v.Flatten()...)

	require.NoError(t, v.InsertRange(1, nil))
	require.Equal(t, before, v.Flatten())
	require.Equal(t, []int{2, 1}, v.Dimensions())
}

// TestVectorNDInsertRangeRejectsPartialStateOnBadPosition mirrors Insert's
// strong exception safety guarantee for the range form.
func TestVectorNDInsertRangeRejectsPartialStateOnBadPosition(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 1)
	require.NoError(t, err)
	before := append([]int(nil), v.Flatten()...)

	err = v.InsertRange(10, [][]int{{1}})
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, before, v.Flatten())
}

// TestVectorNDInsertRangeRejectsShapeMismatch verifies every sub-vector is
// validated against the inner size before any mutation happens.
func TestVectorNDInsertRangeRejectsShapeMismatch(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 1)
	require.NoError(t, err)
	before := append([]int(nil), v.Flatten()...)

	err = v.InsertRange(1, [][]int{{1}, {2, 3}})
	require.ErrorIs(t, err, ErrShapeMismatch)
	require.Equal(t, before, v.Flatten())
}

// TestVectorNDEraseRange verifies Erase removes exactly the requested
// outer-axis range and compacts the remainder, returning the outer index of
// the element that now occupies the erased range's start.
func TestVectorNDEraseRange(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, v.PushBack([]int{i}))
	}

	next, err := v.Erase(1, 3)
	require.NoError(t, err)
	require.Equal(t, 1, next)
	require.Equal(t, []int{3, 1}, v.Dimensions())

	want := []int{0, 3, 4}
	for i, w := range want {
		got, err := v.At(i, 0)
		require.NoError(t, err)
		require.Equal(t, w, got)
	}
}

// TestVectorNDReshapePreservesElementsRowMajor verifies Reshape reinterprets
// the flat backing storage under a new shape without reordering elements.
func TestVectorNDReshapePreservesElementsRowMajor(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](2, 3)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			e, err := v.Index(i)
			require.NoError(t, err)
			el, err := e.Index(j)
			require.NoError(t, err)
			require.NoError(t, el.SetElem(i*3+j))
		}
	}

	reshaped, err := v.Reshape(3, 2)
	require.NoError(t, err)
	got, err := reshaped.At(2, 1)
	require.NoError(t, err)
	require.Equal(t, 5, got)

	_, err = v.Reshape(4, 4)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

// TestVectorNDReserveThenPushBackNeverReallocatesObservably verifies that
// PushBack up to the capacity set by Reserve keeps using the backing array
// Reserve allocated (no reallocation beyond what Reserve itself performs).
func TestVectorNDReserveThenPushBackNeverReallocatesObservably(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 1)
	require.NoError(t, err)
	require.NoError(t, v.Reserve(8))
	backing := v.data[:1]

	for i := 0; i < 8; i++ {
		require.NoError(t, v.PushBack([]int{i}))
	}
	require.Equal(t, []int{8, 1}, v.Dimensions())
	require.Same(t, &backing[0], &v.data[0])
}

// TestVectorNDRangeVisitsEveryOuterSlice verifies Range yields one Proxy per
// outer-axis index in order.
func TestVectorNDRangeVisitsEveryOuterSlice(t *testing.T) {
	t.Parallel()

	v, err := NewVectorND[int](0, 1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, v.PushBack([]int{i * i}))
	}

	var seen []int
	v.Range(func(i int, p Proxy[int]) bool {
		val, err := p.At(0)
		require.NoError(t, err)
		seen = append(seen, val)
		return true
	})
	require.Equal(t, []int{0, 1, 4}, seen)
}
