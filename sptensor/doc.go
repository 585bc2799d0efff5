// Copyright 2025 The Spten Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sptensor provides sparse tensor structures and kernels for
// tensor-decomposition workloads.
//
// # Overview
//
// A SparseTensor stores nonzeros in coordinate (COO) format: one index
// vector per mode plus one value vector, all of length nnz. Once sorted
// into full lexicographic order (SortIndex), a tensor can be split into
// axis-aligned chunks whose granularity is controlled per mode, so work
// can be distributed across parallel execution units without violating
// sort order or mode-wise index contiguity.
//
// # Splitting
//
//	t.SortIndex()
//	s, err := sptensor.NewSplitter(t, []int{4, 2, 1})
//	if err != nil { ... }
//	defer s.Close()
//	for {
//	    chunk, err := s.Next()
//	    if errors.Is(err, sptensor.ErrNoMore) {
//	        break
//	    }
//	    // chunk is an independent tensor covering a contiguous
//	    // nnz range of t
//	}
//
// The union of all produced chunks covers [0, nnz) in increasing order
// with no gaps or overlaps, and every chunk inherits the source's sort
// order. The chunk count adapts to the data: a mode with fewer distinct
// index values than its requested cut count yields one partition per
// distinct value.
//
// # Concurrency
//
// A Splitter is a single-writer cursor: drive it from one goroutine.
// The source tensor is borrowed read-only, so several independent
// Splitters may run over the same tensor concurrently. ForEachChunk
// enumerates chunks single-threaded and then distributes them over a
// worker pool.
//
// # Kernels
//
// Mttkrp and MttkrpParallel consume tensors or chunks together with
// dense factor matrices to accumulate factor-matrix updates during
// canonical polyadic decomposition.
package sptensor
