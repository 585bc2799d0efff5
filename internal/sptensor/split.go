package sptensor

import "fmt"

// Splitter is a stateful cursor that lazily enumerates non-overlapping,
// axis-aligned chunks of a sorted COO tensor. Chunks are produced in
// increasing nnz order and together cover the full range [0, nnz).
//
// The cursor keeps one explicit stack level per mode plus the initial
// whole-range level; the current stack depth doubles as loop control,
// which avoids recursion and keeps Next allocation-light after the
// stacks' first growth.
//
// A Splitter borrows the source tensor read-only: the tensor must not
// be mutated (appended to, resorted) while the splitter is live. A
// single Splitter must be driven by one goroutine at a time; several
// independent Splitters may run over the same tensor concurrently.
type Splitter struct {
	tsr         *SparseTensor
	cuts        *Vector[int]
	partialLow  *Vector[int]
	partialHigh *Vector[int]
	indexStep   *Vector[int]
	noMore      bool
}

// NewSplitter starts splitting t with one target partition count per
// mode. cutsByMode must hold NModes() positive integers; granularity at
// each mode adapts to the distinct index values actually present, so a
// cut count larger than the number of distinct values yields one
// partition per distinct value, never empty partitions.
//
// Returns ErrNoMore if t has no nonzeros and ErrValue if t is not
// recorded as fully lexicographically sorted (SortKey != NModes()-1).
func NewSplitter(t *SparseTensor, cutsByMode []int) (*Splitter, error) {
	if t.NNZ() == 0 {
		return nil, fmt.Errorf("%w: tensor has no nonzeros", ErrNoMore)
	}
	if !t.IsSorted() {
		return nil, fmt.Errorf("%w: sort key is %d, want %d (tensor not fully sorted)",
			ErrValue, t.SortKey, t.NModes()-1)
	}
	if len(cutsByMode) != t.NModes() {
		return nil, fmt.Errorf("%w: got %d cut counts for %d modes", ErrValue, len(cutsByMode), t.NModes())
	}
	for m, c := range cutsByMode {
		if c <= 0 {
			return nil, fmt.Errorf("%w: cut count for mode %d is %d, want > 0", ErrValue, m, c)
		}
	}

	s := &Splitter{
		tsr:         t,
		cuts:        VectorOf(cutsByMode...),
		partialLow:  NewVector[int](1, t.NModes()+1),
		partialHigh: NewVector[int](1, t.NModes()+1),
		indexStep:   NewVector[int](0, t.NModes()),
	}
	s.partialLow.Set(0, 0)
	s.partialHigh.Set(0, t.NNZ())
	return s, nil
}

// Next produces the next chunk, or ErrNoMore once every nonzero has
// been consumed. Calling Next after exhaustion is safe and repeatable:
// it returns ErrNoMore without mutating the cursor.
func (s *Splitter) Next() (*SparseTensor, error) {
	if s.noMore {
		return nil, ErrNoMore
	}
	nmodes := s.tsr.NModes()

	// Descend: cut each remaining mode down to the last one. Stack level
	// mode holds the range this mode may cover; the cut for the mode is
	// pushed as level mode+1.
	for mode := s.partialLow.Len() - 1; mode < nmodes; mode++ {
		low := s.partialLow.At(mode)
		high := s.partialHigh.At(mode)
		ind := s.tsr.Inds[mode].Data()

		// Count distinct index values on this mode within [low, high).
		last := ind[low]
		distinct := 1
		for i := low + 1; i < high; i++ {
			if ind[i] != last {
				distinct++
				last = ind[i]
			}
		}

		// Distinct values grouped into one partition at this mode.
		step := (distinct-1)/s.cuts.At(mode) + 1
		s.indexStep.Append(step)

		bound := scanBoundary(ind, low, high, step)
		s.partialLow.Append(low)
		s.partialHigh.Append(bound)
	}

	// Full depth reached: level nmodes is exactly one chunk's nnz range.
	chunk := s.materialize(s.partialLow.At(nmodes), s.partialHigh.At(nmodes))

	// Backtrack: position the cursor on the next sibling range, popping
	// modes whose parent range is used up. Emptying the stack entirely
	// means the following call observes exhaustion.
	for mode := nmodes - 1; mode >= 0; mode-- {
		low := s.partialHigh.At(mode + 1)
		high := s.partialHigh.At(mode)
		if low >= high {
			s.partialLow.Resize(s.partialLow.Len() - 1)
			s.partialHigh.Resize(s.partialHigh.Len() - 1)
			s.indexStep.Resize(s.indexStep.Len() - 1)
			continue
		}
		bound := scanBoundary(s.tsr.Inds[mode].Data(), low, high, s.indexStep.At(mode))
		s.partialLow.Set(mode+1, low)
		s.partialHigh.Set(mode+1, bound)
		return chunk, nil
	}

	s.noMore = true
	return chunk, nil
}

// Close releases the cursor's stack storage. It does not free or mutate
// the source tensor. The splitter is invalid afterwards.
func (s *Splitter) Close() {
	s.tsr = nil
	s.cuts.Release()
	s.partialLow.Release()
	s.partialHigh.Release()
	s.indexStep.Release()
	s.noMore = true
}

// scanBoundary returns the end of the partition starting at low: the
// position just before the value-change transition that would exceed
// step distinct index values within [low, high).
func scanBoundary(ind []Index, low, high, step int) int {
	last := ind[low]
	count := 1
	i := low
	for ; i < high; i++ {
		if ind[i] != last {
			last = ind[i]
			if count == step {
				break
			}
			count++
		}
	}
	return i
}

// materialize deep-copies the contiguous nnz range [low, high) into a
// fresh tensor with the same mode count and dimensions. The copy aliases
// nothing and inherits the source's sort order.
func (s *Splitter) materialize(low, high int) *SparseTensor {
	n := high - low
	chunk := &SparseTensor{
		Dims:    s.tsr.Dims.Clone(),
		SortKey: s.tsr.SortKey,
		Inds:    make([]*Vector[Index], s.tsr.NModes()),
		Values:  NewVector[Value](n, n),
	}
	for m := range chunk.Inds {
		chunk.Inds[m] = NewVector[Index](n, n)
		copy(chunk.Inds[m].Data(), s.tsr.Inds[m].Data()[low:high])
	}
	copy(chunk.Values.Data(), s.tsr.Values.Data()[low:high])
	return chunk
}
