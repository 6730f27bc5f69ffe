package equilibrium

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Job is one parameter set queued for simulation.
type Job struct {
	Seq    int
	Params Params
}

// JobResult holds the generations produced for a single job.
type JobResult struct {
	Seq         int
	Params      Params
	Generations []Generation
	Err         error
}

// Runner simulates independent parameter sets on a pool of workers.
// Generations within one run are always computed sequentially.
type Runner struct {
	workers int
	logger  *zap.Logger
}

// NewRunner creates a runner. If workers is 0, runtime.NumCPU() is used.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-job diagnostics.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run simulates jobs from the channel. Results arrive in completion order,
// use OrderedCollect to consume them in sequence order.
func (r *Runner) Run(jobs <-chan Job) <-chan JobResult {
	results := make(chan JobResult, 2*r.workers)

	var wg sync.WaitGroup
	wg.Add(r.workers)

	for w := 0; w < r.workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				gens, err := Simulate(job.Params)
				if err != nil {
					r.logger.Debug("simulation rejected",
						zap.Int("seq", job.Seq),
						zap.Error(err))
				}
				results <- JobResult{
					Seq:         job.Seq,
					Params:      job.Params,
					Generations: gens,
					Err:         err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// RunAll simulates every parameter set and returns results in input order.
func (r *Runner) RunAll(params []Params) []JobResult {
	jobs := make(chan Job, len(params))
	for i, p := range params {
		jobs <- Job{Seq: i, Params: p}
	}
	close(jobs)

	out := make([]JobResult, 0, len(params))
	// The callback never fails, so the error is always nil.
	_ = OrderedCollect(r.Run(jobs), func(res JobResult) error {
		out = append(out, res)
		return nil
	})
	return out
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results are buffered until the next expected sequence
// number arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan JobResult, fn func(JobResult) error) error {
	pending := make(map[int]JobResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
