// Package parallel provides a small worker pool for fanning out file
// reads during indexing.
package parallel

import (
	"runtime"
	"sync"
)

// Workers picks a pool size for processing numItems files: twice the CPU
// count, never more than the number of items.
func Workers(numItems int) int {
	n := runtime.NumCPU() * 2
	if n > numItems {
		n = numItems
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Map runs fn on every item using a bounded worker pool and collects the
// results fn reported ok for. Result order is not guaranteed, so results
// should carry their own identity.
func Map[T, R any](items []T, fn func(item T) (R, bool)) []R {
	if len(items) == 0 {
		return nil
	}

	jobs := make(chan T, len(items))
	results := make(chan R, len(items))
	var wg sync.WaitGroup

	for range Workers(len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if r, ok := fn(item); ok {
					results <- r
				}
			}
		}()
	}

	go func() {
		for _, item := range items {
			jobs <- item
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []R
	for r := range results {
		collected = append(collected, r)
	}
	return collected
}
