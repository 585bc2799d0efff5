// Copyright 2025 The Spten Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sptensor provides the public API for sparse tensor structures
// and kernels in the Spten library.
//
// The package defines the core types for sparse tensor-decomposition
// workloads:
//   - SparseTensor: sorted coordinate-format (COO) sparse tensor
//   - Splitter: cursor enumerating axis-aligned chunks of a tensor
//   - Matrix: dense row-major factor matrix
//   - Vector[T]: growable buffer backing index/value storage
//
// Example:
//
//	t, _ := sptensor.FromCOO(sptensor.Dims{4, 4},
//	    [][]sptensor.Index{{0, 1, 2}, {3, 0, 1}},
//	    []sptensor.Value{1, 2, 3})
//	t.SortIndex()
//	chunks, _ := sptensor.SplitAll(t, []int{2, 1})
package sptensor

import (
	"github.com/spten-ml/spten/internal/sptensor"
)

// Type aliases for public API

// Index is the type of a coordinate along one tensor mode.
type Index = sptensor.Index

// Value is the scalar type of stored nonzeros.
type Value = sptensor.Value

// Dims holds the per-mode dimension sizes of a tensor.
type Dims = sptensor.Dims

// Vector is a growable contiguous buffer of fixed-width elements.
type Vector[T any] = sptensor.Vector[T]

// SparseTensor is a coordinate-format (COO) sparse tensor.
type SparseTensor = sptensor.SparseTensor

// Matrix is a dense row-major factor matrix.
type Matrix = sptensor.Matrix

// Splitter is a stateful cursor enumerating non-overlapping chunks of a
// sorted tensor. See NewSplitter.
type Splitter = sptensor.Splitter

// Errors

// ErrNoMore signals expected exhaustion: all chunks have been produced,
// or a tensor has no nonzeros to split.
var ErrNoMore = sptensor.ErrNoMore

// ErrValue signals a violated precondition, such as an unsorted tensor
// handed to the splitter.
var ErrValue = sptensor.ErrValue

// Creation functions

// NewVector creates a vector with the given logical length and reserved
// capacity (minimum 2).
func NewVector[T any](length, capacity int) *Vector[T] {
	return sptensor.NewVector[T](length, capacity)
}

// NewSparseTensor creates an empty sparse tensor with the given
// dimensions.
func NewSparseTensor(dims Dims) (*SparseTensor, error) {
	return sptensor.NewSparseTensor(dims)
}

// FromCOO creates a sparse tensor from parallel coordinate arrays.
func FromCOO(dims Dims, inds [][]Index, values []Value) (*SparseTensor, error) {
	return sptensor.FromCOO(dims, inds, values)
}

// NewMatrix creates a zero matrix with the given shape.
func NewMatrix(rows, cols int) (*Matrix, error) {
	return sptensor.NewMatrix(rows, cols)
}

// Splitting

// NewSplitter starts splitting t with one target partition count per
// mode. Returns ErrNoMore if t has no nonzeros and ErrValue if t is not
// fully lexicographically sorted.
func NewSplitter(t *SparseTensor, cutsByMode []int) (*Splitter, error) {
	return sptensor.NewSplitter(t, cutsByMode)
}

// SplitAll enumerates every chunk of t under cutsByMode.
func SplitAll(t *SparseTensor, cutsByMode []int) ([]*SparseTensor, error) {
	return sptensor.SplitAll(t, cutsByMode)
}

// ForEachChunk splits t and runs fn over the chunks with the given
// number of workers. Chunks are enumerated single-threaded first, then
// distributed.
func ForEachChunk(t *SparseTensor, cutsByMode []int, workers int, fn func(i int, chunk *SparseTensor) error) error {
	return sptensor.ForEachChunk(t, cutsByMode, workers, fn)
}

// Kernels

// Mttkrp computes the matricized-tensor times Khatri-Rao product of t
// along the target mode, accumulating into mats[t.NModes()].
func Mttkrp(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int, scratch *Vector[Value]) error {
	return sptensor.Mttkrp(t, mats, matsOrder, mode, scratch)
}

// MttkrpParallel computes Mttkrp with the given number of workers,
// reducing per-worker private accumulators into the output.
func MttkrpParallel(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int, workers int) error {
	return sptensor.MttkrpParallel(t, mats, matsOrder, mode, workers)
}

// DefaultMatsOrder returns the canonical mode-processing order for a
// target mode: the target first, then the remaining modes cyclically.
func DefaultMatsOrder(nmodes, mode int) []int {
	return sptensor.DefaultMatsOrder(nmodes, mode)
}
