package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Job is one independent conversion unit: one source file to one
// destination file. Jobs commute; no ordering is guaranteed.
type Job struct {
	Src string
	Dst string
}

// Result is one finished job. A non-nil Err means the file was not
// converted; the batch as a whole is unaffected.
type Result struct {
	Job Job
	Err error
}

// Message renders the result as a report line.
func (r Result) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("ERROR converting %s: %v", filepath.Base(r.Job.Src), r.Err)
	}
	return fmt.Sprintf("Converted: %s -> %s", filepath.Base(r.Job.Src), filepath.Base(r.Job.Dst))
}

// Pool dispatches conversions across a bounded set of workers. Workers
// share nothing; destination directory creation is idempotent and safe to
// race.
type Pool struct {
	// Workers is the pool size. Zero means runtime.NumCPU().
	Workers int
	// Quality is the lossy WebP quality passed to every job.
	Quality float32
	// Progress, when set, is called after each completed job with the
	// done and total counts.
	Progress func(done, total int)
}

// Run converts all jobs and returns once every one has finished, success or
// not. Results come back sorted by destination path. A canceled context
// fails the remaining jobs without starting them.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	log.Debug("starting conversion pool", "jobs", len(jobs), "workers", workers)

	jobCh := make(chan Job)
	results := make([]Result, 0, len(jobs))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				var err error
				if err = ctx.Err(); err == nil {
					err = ToWebP(job.Src, job.Dst, p.Quality)
				}

				mu.Lock()
				results = append(results, Result{Job: job, Err: err})
				done := len(results)
				mu.Unlock()

				if p.Progress != nil {
					p.Progress(done, len(jobs))
				}
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Job.Dst < results[j].Job.Dst
	})
	return results
}
