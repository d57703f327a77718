package parallel

import (
	"context"
	"runtime"
	"sync"
)

// ForEach calls fn for every index in [0, count) using at most workers
// goroutines (runtime.NumCPU when workers <= 0). Dispatch stops at the
// first error or when ctx ends; the first error is returned, then the
// context error.
func ForEach(ctx context.Context, count, workers int, fn func(ctx context.Context, i int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, count)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		ec   ErrorCollector
		wg   sync.WaitGroup
		next = make(chan int)
	)
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range next {
				if err := fn(ctx, i); err != nil {
					ec.SetError(err)
					cancel()
				}
			}
		}()
	}

dispatch:
	for i := range count {
		select {
		case next <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(next)
	wg.Wait()

	if err := ec.Err(); err != nil {
		return err
	}
	return ctx.Err()
}
