package engine

// #region imports
import (
	"context"
	"sync"

	"github.com/uago3c/uago/internal/raster"
)

// #endregion

// #region batch

// BatchInput names one bitmap in a batch.
type BatchInput struct {
	Name   string
	Bitmap *raster.Bitmap
}

// BatchResult pairs an input with its finalized run or fatal error.
type BatchResult struct {
	Name string
	Run  Run
	Err  error
}

// Batch processes independent inputs with a bounded worker pool, one run
// per worker. Runs share no mutable state, so no synchronization beyond
// dispatch and collection is needed. Results keep input order.
func (o *Orchestrator) Batch(ctx context.Context, inputs []BatchInput, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]BatchResult, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				run, err := o.Run(ctx, inputs[i].Bitmap)
				results[i] = BatchResult{Name: inputs[i].Name, Run: run, Err: err}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// #endregion
