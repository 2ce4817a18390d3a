// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/sibyl-dev/sibyl/internal/analyzer"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// AnalyzerFactory creates an analyzer for a worker. Analyzers are not
// safe for concurrent use, so each in-flight file gets its own from a
// pool and returns it when done.
type AnalyzerFactory func() *analyzer.Analyzer

// MapFiles processes files in parallel, calling fn for each file with a
// pooled analyzer. Results are returned in input file order; files that
// failed or were cancelled are skipped and recorded. If maxWorkers is
// <= 0, defaults to 2x NumCPU. The second return value is nil when
// every file succeeded. Files not yet started when the context is done
// are recorded as failed with the context's error.
func MapFiles[T any](ctx context.Context, files []string, maxWorkers int, newAnalyzer AnalyzerFactory, fn func(*analyzer.Analyzer, string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	// Index-addressed slots keep the output in input order without a
	// post-hoc sort.
	slots := make([]T, len(files))
	filled := make([]bool, len(files))
	errs := &ProcessingErrors{}
	var mu sync.Mutex

	analyzers := sync.Pool{New: func() any { return newAnalyzer() }}

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, path := range files {
		p.Go(func() {
			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				if onProgress != nil {
					onProgress()
				}
				return
			default:
			}

			a := analyzers.Get().(*analyzer.Analyzer)
			defer analyzers.Put(a)

			result, err := fn(a, path)

			if onProgress != nil {
				onProgress()
			}
			if err != nil {
				errs.Add(path, err)
				return
			}

			mu.Lock()
			slots[i] = result
			filled[i] = true
			mu.Unlock()
		})
	}
	p.Wait()

	results := make([]T, 0, len(files))
	for i := range slots {
		if filled[i] {
			results = append(results, slots[i])
		}
	}
	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
