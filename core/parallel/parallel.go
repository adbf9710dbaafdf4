// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"

	"github.com/sourcegraph/conc"
)

// Parallelize divides [0, items) into one contiguous chunk per CPU and calls
// fn(start, end) for each chunk concurrently. It returns when every chunk is
// done. A panic in fn is re-raised in the caller.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg conc.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := min(start+chunkSize, items)
		wg.Go(func() { fn(start, end) })
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items does not exceed threshold, and Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
