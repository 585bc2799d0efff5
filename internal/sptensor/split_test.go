package sptensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSortedTensor builds a sorted tensor with nnz uniformly random
// coordinates (duplicates possible).
func randomSortedTensor(t *testing.T, dims Dims, nnz int, seed int64) *SparseTensor {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	inds := make([][]Index, len(dims))
	for m, d := range dims {
		inds[m] = make([]Index, nnz)
		for z := range inds[m] {
			inds[m][z] = Index(rng.Intn(int(d)))
		}
	}
	values := make([]Value, nnz)
	for z := range values {
		values[z] = Value(rng.Float64())
	}
	ts, err := FromCOO(dims, inds, values)
	require.NoError(t, err)
	ts.SortIndex()
	return ts
}

// assertCoverage checks the completeness/non-overlap property: the
// concatenation of the chunks reproduces the source nonzeros exactly,
// in order, with no gaps or overlaps.
func assertCoverage(t *testing.T, src *SparseTensor, chunks []*SparseTensor) {
	t.Helper()
	pos := 0
	for ci, chunk := range chunks {
		require.Equal(t, src.NModes(), chunk.NModes(), "chunk %d mode count", ci)
		require.True(t, chunk.Dims.Equal(src.Dims), "chunk %d dims", ci)
		n := chunk.NNZ()
		require.Greater(t, n, 0, "chunk %d is empty", ci)
		require.LessOrEqual(t, pos+n, src.NNZ(), "chunk %d overruns the source", ci)
		for m := 0; m < src.NModes(); m++ {
			assert.Equal(t, src.Inds[m].Data()[pos:pos+n], chunk.Inds[m].Data(),
				"chunk %d mode %d indices", ci, m)
		}
		assert.Equal(t, src.Values.Data()[pos:pos+n], chunk.Values.Data(), "chunk %d values", ci)
		assert.True(t, isLexSorted(chunk), "chunk %d not sorted", ci)
		pos += n
	}
	require.Equal(t, src.NNZ(), pos, "chunks do not cover the full nonzero range")
}

func collectChunks(t *testing.T, ts *SparseTensor, cuts []int) []*SparseTensor {
	t.Helper()
	chunks, err := SplitAll(ts, cuts)
	require.NoError(t, err)
	return chunks
}

func TestSplit_ScenarioA(t *testing.T) {
	// 2-mode tensor, nnz=6, cuts [3,1]: exactly 3 chunks of 2 nonzeros,
	// split at mode-0 boundaries.
	ts, err := FromCOO(Dims{3, 2},
		[][]Index{{0, 0, 1, 1, 2, 2}, {0, 1, 0, 1, 0, 1}},
		[]Value{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	ts.SortIndex()

	chunks := collectChunks(t, ts, []int{3, 1})
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, 2, chunk.NNZ(), "chunk %d", i)
		assert.Equal(t, []Index{Index(i), Index(i)}, chunk.Inds[0].Data(), "chunk %d mode-0", i)
		assert.Equal(t, []Index{0, 1}, chunk.Inds[1].Data(), "chunk %d mode-1", i)
	}
	assertCoverage(t, ts, chunks)
}

func TestSplit_FewerDistinctThanCuts(t *testing.T) {
	// A mode with 2 distinct values and 100 requested cuts yields
	// exactly 2 partitions, not 100.
	ts, err := FromCOO(Dims{8, 2},
		[][]Index{{0, 0, 0, 5, 5, 5}, {0, 1, 1, 0, 0, 1}},
		[]Value{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	ts.SortIndex()

	chunks := collectChunks(t, ts, []int{100, 1})
	require.Len(t, chunks, 2)
	assert.Equal(t, 3, chunks[0].NNZ())
	assert.Equal(t, 3, chunks[1].NNZ())
	assertCoverage(t, ts, chunks)
}

func TestNewSplitter_EmptyTensor(t *testing.T) {
	ts, err := NewSparseTensor(Dims{4, 4})
	require.NoError(t, err)
	ts.SortKey = ts.NModes() - 1 // vacuously sorted

	_, err = NewSplitter(ts, []int{1, 1})
	assert.ErrorIs(t, err, ErrNoMore)
}

func TestNewSplitter_Unsorted(t *testing.T) {
	ts, err := FromCOO(Dims{2, 2}, [][]Index{{1, 0}, {0, 1}}, []Value{1, 2})
	require.NoError(t, err)

	// FromCOO never claims sortedness.
	_, err = NewSplitter(ts, []int{1, 1})
	assert.ErrorIs(t, err, ErrValue)

	// A partially recorded sort key is also rejected.
	ts.SortIndex()
	ts.SortKey = 0
	_, err = NewSplitter(ts, []int{1, 1})
	assert.ErrorIs(t, err, ErrValue)
}

func TestNewSplitter_BadCuts(t *testing.T) {
	ts := randomSortedTensor(t, Dims{4, 4}, 10, 1)

	_, err := NewSplitter(ts, []int{2})
	assert.ErrorIs(t, err, ErrValue, "wrong cut arity")

	_, err = NewSplitter(ts, []int{2, 0})
	assert.ErrorIs(t, err, ErrValue, "zero cut count")

	_, err = NewSplitter(ts, []int{2, -1})
	assert.ErrorIs(t, err, ErrValue, "negative cut count")
}

func TestSplit_IdempotentExhaustion(t *testing.T) {
	ts := randomSortedTensor(t, Dims{3, 3}, 8, 2)

	s, err := NewSplitter(ts, []int{2, 2})
	require.NoError(t, err)
	defer s.Close()

	for {
		if _, err := s.Next(); err != nil {
			require.ErrorIs(t, err, ErrNoMore)
			break
		}
	}
	for i := 0; i < 3; i++ {
		_, err := s.Next()
		assert.ErrorIs(t, err, ErrNoMore, "call %d after exhaustion", i)
	}
}

func TestSplit_NextAfterClose(t *testing.T) {
	ts := randomSortedTensor(t, Dims{3, 3}, 8, 3)

	s, err := NewSplitter(ts, []int{1, 1})
	require.NoError(t, err)
	s.Close()

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrNoMore)
}

func TestSplit_Completeness(t *testing.T) {
	// Property sweep: for any sorted tensor and any cuts, the chunks
	// cover [0, nnz) in order with no gaps or overlaps and stay sorted.
	dimsCases := []Dims{
		{1},
		{7},
		{2, 3},
		{1, 5},
		{5, 1},
		{3, 3, 3},
		{1, 1, 1},
		{4, 1, 6},
		{2, 2, 2, 2},
	}
	cutsFor := func(nmodes, variant int) []int {
		base := [][]int{
			{1, 1, 1, 1},
			{2, 2, 2, 2},
			{3, 1, 2, 5},
			{100, 100, 100, 100},
			{1, 7, 1, 3},
		}
		return base[variant][:nmodes]
	}

	for _, dims := range dimsCases {
		for _, nnz := range []int{1, 2, 5, 17} {
			for variant := 0; variant < 5; variant++ {
				ts := randomSortedTensor(t, dims, nnz, int64(nnz*10+variant))
				chunks := collectChunks(t, ts, cutsFor(len(dims), variant))
				assertCoverage(t, ts, chunks)
			}
		}
	}
}

func TestSplit_PartitionBound(t *testing.T) {
	// One-mode tensors: the partition count never exceeds the number of
	// distinct index values, and never exceeds the requested cut count.
	for distinct := 1; distinct <= 8; distinct++ {
		inds := make([]Index, 0, distinct*2)
		values := make([]Value, 0, distinct*2)
		for d := 0; d < distinct; d++ {
			inds = append(inds, Index(d), Index(d))
			values = append(values, Value(d), Value(d)+0.5)
		}
		ts, err := FromCOO(Dims{Index(distinct)}, [][]Index{inds}, values)
		require.NoError(t, err)
		ts.SortIndex()

		for cuts := 1; cuts <= 10; cuts++ {
			chunks := collectChunks(t, ts, []int{cuts})
			assert.LessOrEqual(t, len(chunks), distinct, "distinct=%d cuts=%d", distinct, cuts)
			assert.LessOrEqual(t, len(chunks), cuts, "distinct=%d cuts=%d", distinct, cuts)
			if cuts >= distinct {
				assert.Len(t, chunks, distinct, "plentiful cuts must give one partition per distinct value")
			}
			assertCoverage(t, ts, chunks)
		}
	}
}

func TestSplit_SingleDistinctValueMode(t *testing.T) {
	// A middle mode with exactly one distinct value must neither stall
	// the cursor nor produce empty partitions.
	ts, err := FromCOO(Dims{3, 1, 2},
		[][]Index{{0, 0, 1, 2, 2, 2}, {0, 0, 0, 0, 0, 0}, {0, 1, 1, 0, 1, 1}},
		[]Value{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	ts.SortIndex()

	chunks := collectChunks(t, ts, []int{3, 4, 2})
	assertCoverage(t, ts, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	ts := randomSortedTensor(t, Dims{6, 5, 4}, 40, 11)
	cuts := []int{3, 2, 2}

	first := collectChunks(t, ts, cuts)
	second := collectChunks(t, ts, cuts)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].NNZ(), second[i].NNZ(), "chunk %d", i)
		assert.Equal(t, first[i].Values.Data(), second[i].Values.Data(), "chunk %d values", i)
	}
}

func TestSplit_NoAliasing(t *testing.T) {
	ts := randomSortedTensor(t, Dims{4, 4}, 12, 5)
	before := ts.Clone()

	chunks := collectChunks(t, ts, []int{2, 2})
	for _, chunk := range chunks {
		for m := range chunk.Inds {
			chunk.Inds[m].Fill(0)
		}
		chunk.Values.Fill(-1)
	}

	// Mutating chunks must not touch the source.
	for m := range ts.Inds {
		assert.Equal(t, before.Inds[m].Data(), ts.Inds[m].Data(), "mode %d", m)
	}
	assert.Equal(t, before.Values.Data(), ts.Values.Data())
}

func TestSplit_MutatedSourceRejectedOnRestart(t *testing.T) {
	// The splitter borrows the source read-only; a mutation drops the
	// sort invariant and a subsequent start fails loudly instead of
	// producing garbage.
	ts := randomSortedTensor(t, Dims{4, 4}, 12, 6)
	require.NoError(t, ts.Append([]Index{0, 0}, 1))

	_, err := NewSplitter(ts, []int{2, 2})
	assert.ErrorIs(t, err, ErrValue)
}
