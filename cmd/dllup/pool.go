package main

import (
	"context"
	"runtime"
	"sync"
)

// fileRenderer renders one discovered document.
type fileRenderer interface {
	RenderFile(ctx context.Context, f FileToRender) RenderResult
}

// renderBatch renders files with a fixed number of workers. The renderer is
// shared: a Converter keeps per-document state inside each call.
func renderBatch(ctx context.Context, r fileRenderer, workers int, files []FileToRender) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = r.RenderFile(ctx, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// resolvePoolSize determines the worker count.
// Priority: explicit flag > DLLUP_WORKERS > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return min(envWorkers, MaxWorkers)
	}

	// Equations are rendered by subprocesses, so leave headroom for them.
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
