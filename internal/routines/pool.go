// Package routines provides a bounded pool of go-routines.
package routines

import "sync"

// Pool executes queued functions concurrently in a fixed number of
// go-routines.
type Pool struct {
	work chan func()
	wg   sync.WaitGroup

	closeOnce sync.Once
}

// NewPool creates a pool and starts workers go-routines.
// If workers is <1, 1 worker is started.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := Pool{
		work: make(chan func(), workers),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return &p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for fn := range p.work {
		fn()
	}
}

// Queue schedules fn for execution.
// It blocks when all workers are busy and the queue is full.
// Calling Queue after Wait panics.
func (p *Pool) Queue(fn func()) {
	p.work <- fn
}

// Wait waits until all queued functions were executed and terminates the
// workers.
// It can be called multiple times.
func (p *Pool) Wait() {
	p.closeOnce.Do(func() {
		close(p.work)
	})

	p.wg.Wait()
}
