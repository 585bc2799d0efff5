package sptensor

import "fmt"

// Index is the type of a coordinate along one tensor mode.
type Index = uint32

// Value is the scalar type of stored nonzeros.
type Value = float32

// Dims holds the per-mode dimension sizes of a tensor.
// Example: Dims{16, 8, 4} describes a 3-mode tensor of extent 16x8x4.
type Dims []Index

// Validate checks that every dimension is positive.
func (d Dims) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: tensor must have at least one mode", ErrValue)
	}
	for m, dim := range d {
		if dim == 0 {
			return fmt.Errorf("%w: dimension of mode %d is zero", ErrValue, m)
		}
	}
	return nil
}

// Equal reports whether two dimension lists are identical.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the dimension list.
func (d Dims) Clone() Dims {
	c := make(Dims, len(d))
	copy(c, d)
	return c
}

// SparseTensor is a coordinate-format (COO) sparse tensor: one index
// vector per mode plus one value vector, all of equal length nnz.
//
// SortKey records how much of the canonical nonzero order currently
// holds: SortKey == NModes()-1 means the nonzeros are sorted in full
// lexicographic order across modes 0..NModes()-1, which is the
// precondition for splitting. Any mutation that may disturb the order
// resets SortKey to -1.
type SparseTensor struct {
	Dims    Dims
	SortKey int
	Inds    []*Vector[Index]
	Values  *Vector[Value]
}

// NewSparseTensor creates an empty sparse tensor with the given
// dimensions. The returned tensor has nnz == 0 and SortKey == -1.
func NewSparseTensor(dims Dims) (*SparseTensor, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	t := &SparseTensor{
		Dims:    dims.Clone(),
		SortKey: -1,
		Inds:    make([]*Vector[Index], len(dims)),
		Values:  NewVector[Value](0, minVectorCap),
	}
	for m := range t.Inds {
		t.Inds[m] = NewVector[Index](0, minVectorCap)
	}
	return t, nil
}

// FromCOO creates a sparse tensor from parallel coordinate arrays:
// inds[m][z] is the mode-m index of nonzero z. All arrays must share one
// length and every index must be inside its mode's dimension. The data
// is copied; SortKey is -1 until SortIndex is called.
func FromCOO(dims Dims, inds [][]Index, values []Value) (*SparseTensor, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if len(inds) != len(dims) {
		return nil, fmt.Errorf("%w: got %d index arrays for %d modes", ErrValue, len(inds), len(dims))
	}
	for m := range inds {
		if len(inds[m]) != len(values) {
			return nil, fmt.Errorf("%w: mode %d has %d indices, want %d", ErrValue, m, len(inds[m]), len(values))
		}
		for z, idx := range inds[m] {
			if idx >= dims[m] {
				return nil, fmt.Errorf("%w: nonzero %d index %d out of range for mode %d (dim %d)",
					ErrValue, z, idx, m, dims[m])
			}
		}
	}
	t, err := NewSparseTensor(dims)
	if err != nil {
		return nil, err
	}
	for m := range inds {
		t.Inds[m].AppendSlice(inds[m])
	}
	t.Values.AppendSlice(values)
	return t, nil
}

// NModes returns the number of modes.
func (t *SparseTensor) NModes() int {
	return len(t.Dims)
}

// NNZ returns the number of stored nonzeros.
func (t *SparseTensor) NNZ() int {
	return t.Values.Len()
}

// IsSorted reports whether the full lexicographic sort invariant is
// recorded as holding.
func (t *SparseTensor) IsSorted() bool {
	return t.SortKey == t.NModes()-1
}

// Append adds one nonzero and invalidates the sort invariant.
func (t *SparseTensor) Append(coord []Index, v Value) error {
	if len(coord) != t.NModes() {
		return fmt.Errorf("%w: coordinate has %d modes, want %d", ErrValue, len(coord), t.NModes())
	}
	for m, idx := range coord {
		if idx >= t.Dims[m] {
			return fmt.Errorf("%w: index %d out of range for mode %d (dim %d)", ErrValue, idx, m, t.Dims[m])
		}
	}
	for m, idx := range coord {
		t.Inds[m].Append(idx)
	}
	t.Values.Append(v)
	t.SortKey = -1
	return nil
}

// Clone returns a deep copy sharing no storage with the receiver.
func (t *SparseTensor) Clone() *SparseTensor {
	c := &SparseTensor{
		Dims:    t.Dims.Clone(),
		SortKey: t.SortKey,
		Inds:    make([]*Vector[Index], t.NModes()),
		Values:  t.Values.Clone(),
	}
	for m := range t.Inds {
		c.Inds[m] = t.Inds[m].Clone()
	}
	return c
}
