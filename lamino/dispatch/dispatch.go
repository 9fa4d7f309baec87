// Package dispatch runs a callback over contiguous partitions of an index
// range with bounded concurrency. Blocks are mutually independent: each
// callback receives its own range and no cross-block state is shared, so
// execution order does not affect the result.
package dispatch

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-lamino/internal/trace"
)

// Range is one contiguous block [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the block size.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Split partitions [0, n) into at most blocks contiguous ranges of nearly
// equal size. Fewer ranges are returned when n < blocks.
func Split(n, blocks int) []Range {
	if n <= 0 {
		return nil
	}
	if blocks < 1 {
		blocks = 1
	}
	if blocks > n {
		blocks = n
	}

	out := make([]Range, 0, blocks)
	size := n / blocks
	rem := n % blocks
	lo := 0
	for i := 0; i < blocks; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		out = append(out, Range{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

// Run executes fn once per block of [0, n) with at most workers blocks in
// flight. The first error aborts the run and is returned; remaining blocks
// already started are allowed to finish.
func Run(n, blocks, workers int, fn func(Range) error) error {
	ranges := Split(n, blocks)
	if len(ranges) == 0 {
		return nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(ranges) {
		workers = len(ranges)
	}
	trace.Debugf("dispatch: %d elements in %d blocks over %d workers", n, len(ranges), workers)

	if workers == 1 {
		for _, r := range ranges {
			if err := fn(r); err != nil {
				return fmt.Errorf("dispatch: block [%d,%d): %w", r.Lo, r.Hi, err)
			}
		}
		return nil
	}

	work := make(chan Range)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range work {
				if err := fn(r); err != nil {
					errs <- fmt.Errorf("dispatch: block [%d,%d): %w", r.Lo, r.Hi, err)
					return
				}
			}
		}()
	}

	var firstErr error
feed:
	for _, r := range ranges {
		select {
		case work <- r:
		case firstErr = <-errs:
			break feed
		}
	}
	close(work)
	wg.Wait()

	if firstErr == nil {
		select {
		case firstErr = <-errs:
		default:
		}
	}
	return firstErr
}
