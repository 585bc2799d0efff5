package sptensor

// minVectorCap is the smallest backing store a Vector ever allocates.
const minVectorCap = 2

// Vector is a growable contiguous buffer of fixed-width elements.
// It backs the index and value arrays of sparse tensors and the range
// stacks of the split engine.
//
// Growth is geometric (~1.5x), so Append is amortized O(1). The backing
// store never shrinks; Resize to a smaller length only truncates the
// logical length, which keeps stack push/pop cycles allocation-free
// after the first growth.
type Vector[T any] struct {
	data []T // logical contents; cap(data) is managed manually
}

// NewVector creates a vector with the given logical length and reserved
// capacity. Capacity is raised to at least the length and never below 2.
// The first length elements are zero-valued.
func NewVector[T any](length, capacity int) *Vector[T] {
	if capacity < length {
		capacity = length
	}
	if capacity < minVectorCap {
		capacity = minVectorCap
	}
	return &Vector[T]{data: make([]T, length, capacity)}
}

// VectorOf creates a vector holding a copy of the given elements.
func VectorOf[T any](elems ...T) *Vector[T] {
	v := NewVector[T](len(elems), len(elems))
	copy(v.data, elems)
	return v
}

// Len returns the logical length.
func (v *Vector[T]) Len() int {
	return len(v.data)
}

// Cap returns the reserved capacity.
func (v *Vector[T]) Cap() int {
	return cap(v.data)
}

// Data returns the logical contents as a slice. The slice aliases the
// vector's backing store and is invalidated by any growing operation.
func (v *Vector[T]) Data() []T {
	return v.data
}

// At returns the element at index i.
func (v *Vector[T]) At(i int) T {
	return v.data[i]
}

// Set overwrites the element at index i.
func (v *Vector[T]) Set(i int, x T) {
	v.data[i] = x
}

// Append adds one element at the end, growing the backing store by ~1.5x
// when full.
func (v *Vector[T]) Append(x T) {
	if len(v.data) == cap(v.data) {
		v.grow(len(v.data) + 1)
	}
	v.data = append(v.data, x)
}

// AppendSlice adds all elements of xs at the end.
func (v *Vector[T]) AppendSlice(xs []T) {
	if need := len(v.data) + len(xs); need > cap(v.data) {
		v.grow(need)
	}
	v.data = append(v.data, xs...)
}

// AppendVector adds the contents of other at the end.
func (v *Vector[T]) AppendVector(other *Vector[T]) {
	v.AppendSlice(other.data)
}

// Resize changes the logical length to n. The prefix min(n, Len()) is
// preserved; when growing, the new tail is unspecified (zero-valued for
// freshly allocated storage, stale otherwise). Shrinking never releases
// the backing store.
func (v *Vector[T]) Resize(n int) {
	switch {
	case n <= len(v.data):
		v.data = v.data[:n]
	case n <= cap(v.data):
		v.data = v.data[:n]
	default:
		v.grow(n)
		v.data = v.data[:n]
	}
}

// Fill sets every element to x.
func (v *Vector[T]) Fill(x T) {
	for i := range v.data {
		v.data[i] = x
	}
}

// Clone returns an independent copy with capacity equal to the length.
func (v *Vector[T]) Clone() *Vector[T] {
	c := NewVector[T](len(v.data), len(v.data))
	copy(c.data, v.data)
	return c
}

// Release drops the backing store. The vector must be reinitialized
// before further use.
func (v *Vector[T]) Release() {
	v.data = nil
}

// grow reallocates so that cap >= need, growing by at least 1.5x.
func (v *Vector[T]) grow(need int) {
	newcap := cap(v.data) + cap(v.data)/2
	if newcap < need {
		newcap = need
	}
	if newcap < minVectorCap {
		newcap = minVectorCap
	}
	data := make([]T, len(v.data), newcap)
	copy(data, v.data)
	v.data = data
}
