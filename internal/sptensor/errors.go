package sptensor

import "errors"

// Common errors.
var (
	// ErrNoMore signals expected exhaustion: a splitter has produced every
	// chunk, or a tensor has no nonzeros to split. It is a loop terminator,
	// not a failure, and is always safe to observe repeatedly.
	ErrNoMore = errors.New("no more chunks")

	// ErrValue signals a violated precondition (a caller bug, e.g. an
	// unsorted tensor handed to the splitter). Retrying without fixing the
	// input will fail again.
	ErrValue = errors.New("invalid value")
)
