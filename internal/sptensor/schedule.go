package sptensor

import (
	"context"
	"errors"
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sync/errgroup"
)

// SplitAll enumerates every chunk of t under cutsByMode into a slice,
// in the splitter's deterministic order. A tensor with no nonzeros
// yields an empty slice.
func SplitAll(t *SparseTensor, cutsByMode []int) ([]*SparseTensor, error) {
	s, err := NewSplitter(t, cutsByMode)
	if err != nil {
		if errors.Is(err, ErrNoMore) {
			return nil, nil
		}
		return nil, err
	}
	defer s.Close()

	var chunks []*SparseTensor
	for {
		chunk, err := s.Next()
		if err != nil {
			if errors.Is(err, ErrNoMore) {
				return chunks, nil
			}
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
}

// ForEachChunk splits t under cutsByMode and runs fn over the chunks
// with the given number of workers. The cursor is single-writer, so
// chunks are enumerated single-threaded into a FIFO first and only then
// distributed; fn receives each chunk's position in enumeration order.
// The first error returned by fn stops the remaining workers and is
// returned. Chunks are independent copies, so fn may mutate them.
func ForEachChunk(t *SparseTensor, cutsByMode []int, workers int, fn func(i int, chunk *SparseTensor) error) error {
	chunks, err := SplitAll(t, cutsByMode)
	if err != nil {
		return err
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}
	if workers <= 1 {
		for i, chunk := range chunks {
			if err := fn(i, chunk); err != nil {
				return err
			}
		}
		return nil
	}

	type task struct {
		i     int
		chunk *SparseTensor
	}
	pending := queue.New()
	for i, chunk := range chunks {
		pending.Add(task{i, chunk})
	}

	var mu sync.Mutex
	take := func() (task, bool) {
		mu.Lock()
		defer mu.Unlock()
		if pending.Length() == 0 {
			return task{}, false
		}
		return pending.Remove().(task), true
	}

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for ctx.Err() == nil {
				tk, ok := take()
				if !ok {
					return nil
				}
				if err := fn(tk.i, tk.chunk); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
