package sptensor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAll_EmptyTensor(t *testing.T) {
	ts, err := NewSparseTensor(Dims{4, 4})
	require.NoError(t, err)
	ts.SortKey = ts.NModes() - 1

	chunks, err := SplitAll(ts, []int{2, 2})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitAll_PropagatesValueError(t *testing.T) {
	ts, err := FromCOO(Dims{2, 2}, [][]Index{{1, 0}, {0, 1}}, []Value{1, 2})
	require.NoError(t, err)

	_, err = SplitAll(ts, []int{1, 1})
	assert.ErrorIs(t, err, ErrValue)
}

func TestForEachChunk_VisitsEveryChunkOnce(t *testing.T) {
	ts := randomSortedTensor(t, Dims{8, 6, 4}, 120, 81)
	cuts := []int{4, 2, 2}

	chunks, err := SplitAll(ts, cuts)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var mu sync.Mutex
	visited := make(map[int]int)
	total := 0
	err = ForEachChunk(ts, cuts, 4, func(i int, chunk *SparseTensor) error {
		mu.Lock()
		defer mu.Unlock()
		visited[i]++
		total += chunk.NNZ()
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, visited, len(chunks))
	for i, n := range visited {
		assert.Equal(t, 1, n, "chunk %d visited %d times", i, n)
	}
	assert.Equal(t, ts.NNZ(), total)
}

func TestForEachChunk_SingleWorker(t *testing.T) {
	ts := randomSortedTensor(t, Dims{5, 5}, 25, 82)

	var order []int
	err := ForEachChunk(ts, []int{3, 1}, 1, func(i int, _ *SparseTensor) error {
		order = append(order, i)
		return nil
	})
	require.NoError(t, err)

	// Sequential fallback preserves enumeration order.
	for k := 1; k < len(order); k++ {
		assert.Equal(t, order[k-1]+1, order[k])
	}
}

func TestForEachChunk_StopsOnError(t *testing.T) {
	ts := randomSortedTensor(t, Dims{16, 4}, 200, 83)
	boom := errors.New("boom")

	err := ForEachChunk(ts, []int{8, 2}, 4, func(i int, _ *SparseTensor) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEachChunk_PropagatesSplitErrors(t *testing.T) {
	ts := randomSortedTensor(t, Dims{4, 4}, 10, 84)

	err := ForEachChunk(ts, []int{0, 1}, 2, func(int, *SparseTensor) error { return nil })
	assert.ErrorIs(t, err, ErrValue)
}
