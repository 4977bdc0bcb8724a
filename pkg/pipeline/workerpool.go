package pipeline

import (
	"context"
	"errors"
	"sync"
)

// pageJob is a unit of per-page work (render + recognize) submitted to the
// pool. It returns an error to indicate failure; callers decide how to treat
// failures.
type pageJob func(ctx context.Context) error

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool closed")

// workerPool runs page jobs on a fixed number of goroutines. It exists to
// overlap the expensive recognition of independent pages; output ordering is
// the caller's responsibility.
type workerPool struct {
	jobs    chan pageJob
	wg      sync.WaitGroup
	workers int

	closeMu sync.Mutex
	closed  bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	return &workerPool{
		jobs:    make(chan pageJob, workers*2),
		workers: workers,
	}
}

// start launches the workers; they run until ctx is done or close is called.
func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					// Per-page errors are reported through shared state the
					// job closes over, not through the pool.
					_ = job(ctx)
				}
			}
		}()
	}
}

// submit enqueues a job, returning promptly if ctx is canceled first.
func (p *workerPool) submit(ctx context.Context, job pageJob) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits for the workers to drain the queue.
func (p *workerPool) close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}
