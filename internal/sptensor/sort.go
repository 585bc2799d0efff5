package sptensor

import "sort"

// coordSorter orders nonzeros lexicographically across modes 0..n-1,
// keeping every mode's index vector and the value vector in step.
type coordSorter struct {
	t *SparseTensor
}

func (s coordSorter) Len() int {
	return s.t.NNZ()
}

func (s coordSorter) Less(i, j int) bool {
	for _, ind := range s.t.Inds {
		a, b := ind.At(i), ind.At(j)
		if a != b {
			return a < b
		}
	}
	return false
}

func (s coordSorter) Swap(i, j int) {
	for _, ind := range s.t.Inds {
		d := ind.Data()
		d[i], d[j] = d[j], d[i]
	}
	v := s.t.Values.Data()
	v[i], v[j] = v[j], v[i]
}

// SortIndex sorts the nonzeros in place into full lexicographic order
// across modes 0..NModes()-1 and records the invariant by setting
// SortKey to NModes()-1. This establishes the precondition required by
// NewSplitter.
func (t *SparseTensor) SortIndex() {
	sort.Sort(coordSorter{t})
	t.SortKey = t.NModes() - 1
}
