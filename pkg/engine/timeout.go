package engine

import (
	"fmt"
	"sync"
	"time"
)

// evalResult passes evaluation output from the worker goroutine.
type evalResult struct {
	res EvalResult
	err error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (EvalResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return EvalResult{}, fmt.Errorf("evaluation superseded by newer request")
		}
		if r.err != nil {
			return EvalResult{}, r.err
		}
		return r.res, nil

	case <-timer.C:
		return EvalResult{}, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
