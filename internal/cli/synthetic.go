package cli

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spten-ml/spten/internal/sptensor"
)

// parseDims parses a dimension spec like "64x32x16".
func parseDims(spec string) (sptensor.Dims, error) {
	parts := strings.Split(spec, "x")
	dims := make(sptensor.Dims, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil || d == 0 {
			return nil, fmt.Errorf("invalid dimension %q in %q", p, spec)
		}
		dims = append(dims, sptensor.Index(d))
	}
	return dims, nil
}

// parseCuts parses a per-mode cut spec like "4,2,1".
func parseCuts(spec string, nmodes int) ([]int, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != nmodes {
		return nil, fmt.Errorf("cut spec %q has %d entries, tensor has %d modes", spec, len(parts), nmodes)
	}
	cuts := make([]int, len(parts))
	for i, p := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || c <= 0 {
			return nil, fmt.Errorf("invalid cut count %q in %q", p, spec)
		}
		cuts[i] = c
	}
	return cuts, nil
}

// randomTensor builds a sorted synthetic tensor with nnz uniformly
// random coordinates (duplicates possible) and values in [0, 1).
func randomTensor(dims sptensor.Dims, nnz int, rng *rand.Rand) (*sptensor.SparseTensor, error) {
	inds := make([][]sptensor.Index, len(dims))
	for m, d := range dims {
		inds[m] = make([]sptensor.Index, nnz)
		for z := range inds[m] {
			inds[m][z] = sptensor.Index(rng.Intn(int(d)))
		}
	}
	values := make([]sptensor.Value, nnz)
	for z := range values {
		values[z] = sptensor.Value(rng.Float64())
	}
	t, err := sptensor.FromCOO(dims, inds, values)
	if err != nil {
		return nil, err
	}
	t.SortIndex()
	return t, nil
}
