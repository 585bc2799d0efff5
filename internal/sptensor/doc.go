// Package sptensor implements sparse-tensor data structures and kernels
// for tensor-decomposition workloads: coordinate-format (COO) tensors,
// growable vectors backing their storage, dense factor matrices, the
// chunk-splitting engine that partitions a sorted tensor into
// axis-aligned sub-tensors, and the MTTKRP kernel consuming them.
package sptensor
