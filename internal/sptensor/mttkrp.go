package sptensor

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spten-ml/spten/internal/parallel"
)

// checkMttkrpArgs validates the shared MTTKRP contract: mats holds one
// factor matrix per mode plus the output matrix at index NModes(), all
// with the same rank (column count); matsOrder is a permutation of the
// modes starting with the target mode.
func checkMttkrpArgs(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int) (rank int, err error) {
	nmodes := t.NModes()
	if nmodes < 2 {
		return 0, fmt.Errorf("%w: MTTKRP needs at least 2 modes, tensor has %d", ErrValue, nmodes)
	}
	if mode < 0 || mode >= nmodes {
		return 0, fmt.Errorf("%w: target mode %d out of range [0, %d)", ErrValue, mode, nmodes)
	}
	if len(mats) != nmodes+1 {
		return 0, fmt.Errorf("%w: got %d matrices, want %d (one per mode plus output)", ErrValue, len(mats), nmodes+1)
	}
	rank = mats[0].Cols
	for m, mat := range mats {
		if mat.Cols != rank {
			return 0, fmt.Errorf("%w: matrix %d has rank %d, want %d", ErrValue, m, mat.Cols, rank)
		}
	}
	for m := 0; m < nmodes; m++ {
		if mats[m].Rows < int(t.Dims[m]) {
			return 0, fmt.Errorf("%w: factor matrix %d has %d rows, mode dimension is %d",
				ErrValue, m, mats[m].Rows, t.Dims[m])
		}
	}
	if mats[nmodes].Rows < int(t.Dims[mode]) {
		return 0, fmt.Errorf("%w: output matrix has %d rows, target mode dimension is %d",
			ErrValue, mats[nmodes].Rows, t.Dims[mode])
	}
	if len(matsOrder) != nmodes {
		return 0, fmt.Errorf("%w: mode order has %d entries, want %d", ErrValue, len(matsOrder), nmodes)
	}
	if matsOrder[0] != mode {
		return 0, fmt.Errorf("%w: mode order must start with target mode %d, got %d", ErrValue, mode, matsOrder[0])
	}
	seen := make([]bool, nmodes)
	for _, m := range matsOrder {
		if m < 0 || m >= nmodes || seen[m] {
			return 0, fmt.Errorf("%w: mode order %v is not a permutation of the modes", ErrValue, matsOrder)
		}
		seen[m] = true
	}
	return rank, nil
}

// mttkrpRange accumulates the MTTKRP contribution of nonzeros
// [lo, hi) into out. scratch must have length rank.
func mttkrpRange(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int, out *Matrix, scratch []Value, lo, hi int) {
	nmodes := t.NModes()
	vals := t.Values.Data()
	target := t.Inds[mode].Data()

	for z := lo; z < hi; z++ {
		first := mats[matsOrder[1]]
		row := first.Row(int(t.Inds[matsOrder[1]].Data()[z]))
		v := vals[z]
		for r := range scratch {
			scratch[r] = v * row[r]
		}
		for i := 2; i < nmodes; i++ {
			m := matsOrder[i]
			row = mats[m].Row(int(t.Inds[m].Data()[z]))
			for r := range scratch {
				scratch[r] *= row[r]
			}
		}
		dst := out.Row(int(target[z]))
		for r := range scratch {
			dst[r] += scratch[r]
		}
	}
}

// Mttkrp computes the matricized-tensor times Khatri-Rao product of t
// along the target mode: for every nonzero, the Hadamard product of the
// non-target factor rows scaled by the value is accumulated into the
// output matrix row addressed by the nonzero's target-mode index.
//
// mats holds the NModes() factor matrices followed by the output matrix
// at index NModes(); the output is accumulated into, not cleared.
// scratch is a reusable buffer resized to the decomposition rank.
// The tensor and the factor matrices are read-only.
func Mttkrp(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int, scratch *Vector[Value]) error {
	rank, err := checkMttkrpArgs(t, mats, matsOrder, mode)
	if err != nil {
		return err
	}
	scratch.Resize(rank)
	mttkrpRange(t, mats, matsOrder, mode, mats[t.NModes()], scratch.Data(), 0, t.NNZ())
	return nil
}

// MttkrpParallel computes the same result as Mttkrp using the given
// number of workers. Each worker accumulates a private copy of the
// output matrix over its slice of the nonzero range; the copies are
// then reduced row-wise into the shared output. Determinism of the
// result follows from addition over disjoint nonzero blocks per row.
func MttkrpParallel(t *SparseTensor, mats []*Matrix, matsOrder []int, mode int, workers int) error {
	rank, err := checkMttkrpArgs(t, mats, matsOrder, mode)
	if err != nil {
		return err
	}
	nnz := t.NNZ()
	if workers > nnz {
		workers = nnz
	}
	if workers <= 1 {
		scratch := NewVector[Value](rank, rank)
		mttkrpRange(t, mats, matsOrder, mode, mats[t.NModes()], scratch.Data(), 0, nnz)
		return nil
	}

	out := mats[t.NModes()]
	copies := make([]*Matrix, workers)
	for w := range copies {
		if copies[w], err = NewMatrix(out.Rows, out.Cols); err != nil {
			return err
		}
	}

	var g errgroup.Group
	block := (nnz + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * block
		hi := min(lo+block, nnz)
		priv := copies[w]
		g.Go(func() error {
			scratch := make([]Value, rank)
			mttkrpRange(t, mats, matsOrder, mode, priv, scratch, lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Row-wise reduction of the private copies.
	parallel.For(out.Rows, func(i int) {
		dst := out.Row(i)
		for _, priv := range copies {
			src := priv.Row(i)
			for r := range dst {
				dst[r] += src[r]
			}
		}
	}, parallel.DefaultConfig())
	return nil
}

// DefaultMatsOrder returns the canonical mode-processing order for a
// target mode: the target first, then the remaining modes cyclically.
func DefaultMatsOrder(nmodes, mode int) []int {
	order := make([]int, nmodes)
	order[0] = mode
	for i := 1; i < nmodes; i++ {
		order[i] = (mode + i) % nmodes
	}
	return order
}
