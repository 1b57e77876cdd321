package upload

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one file of a batch.
type Result struct {
	Key string
	Err error
}

// Batch uploads jobs concurrently and waits for every one of them. One
// file's failure never cancels the others. concurrency <= 0 runs all jobs
// at once. Results are in job order.
func (s *Supervisor) Batch(ctx context.Context, jobs []Job, concurrency int) []Result {
	keys := make([]string, len(jobs))
	for i, j := range jobs {
		keys[i] = j.Key
	}
	s.tracker.Start(keys...)

	results := make([]Result, len(jobs))

	// Plain Group, not WithContext: a failed file must not cancel its siblings.
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = Result{Key: job.Key, Err: s.Upload(ctx, job)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
