// Package workerpool implements the bounded worker set with handle-based
// result retrieval used both to drain the task queue and to run whole
// pipelines in parallel: a fixed number of long-lived goroutines pulling
// off a shared queue, a mutex protecting bookkeeping, and a WaitGroup the
// pool waits on at shutdown.
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/clipforge/pipeline/config"
	pipelineerrors "github.com/clipforge/pipeline/errors"
)

type jobState int

const (
	stateSubmitted jobState = iota
	stateRunning
	stateDone
	stateCancelled
)

type job struct {
	taskID string
	fn     func() (interface{}, error)
}

type handle struct {
	mu     sync.Mutex
	done   chan struct{}
	result interface{}
	err    error
	state  jobState
}

// Handle is returned by Submit. Callers typically retrieve the result by
// task id via Pool.GetResult rather than through the handle directly, but
// the handle is returned so submit-time code can tell a submission
// succeeded.
type Handle struct {
	TaskID string
}

// Stats is a snapshot of worker pool counters.
type Stats struct {
	MaxWorkers int
	Active     int
	Pending    int
	Completed  int
	Failed     int
	Cancelled  int
}

// Pool is a bounded worker set. The zero value is not usable; construct
// with New.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond

	maxWorkers int
	queue      []job
	handles    map[string]*handle

	active    int
	completed int
	failed    int
	cancelled int

	shutdown bool
	wg       sync.WaitGroup
}

// New constructs a Pool with maxWorkers goroutines. maxWorkers <= 0 uses
// runtime.NumCPU().
func New(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	p := &Pool{
		maxWorkers: maxWorkers,
		handles:    make(map[string]*handle),
	}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < maxWorkers; i++ {
		p.wg.Add(1)
		go p.workerRoutine()
	}
	return p
}

// NewFromConfig is a convenience constructor reading pool size off a
// config.Config.
func NewFromConfig(cfg config.Config) *Pool {
	return New(cfg.WorkerPoolSize)
}

// Acquire constructs a Pool and returns a closer that performs a blocking
// Shutdown: `pool, done := workerpool.Acquire(n); defer done()`.
func Acquire(maxWorkers int) (*Pool, func()) {
	p := New(maxWorkers)
	return p, func() { p.Shutdown(true) }
}

func (p *Pool) workerRoutine() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.shutdown {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.shutdown {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue = p.queue[1:]
		h := p.handles[j.taskID]
		p.mu.Unlock()

		h.mu.Lock()
		if h.state == stateCancelled {
			h.mu.Unlock()
			continue
		}
		h.state = stateRunning
		h.mu.Unlock()

		p.mu.Lock()
		p.active++
		p.mu.Unlock()

		result, err := safeCall(j.fn)

		p.mu.Lock()
		p.active--
		if err != nil {
			p.failed++
		} else {
			p.completed++
		}
		p.mu.Unlock()

		h.mu.Lock()
		h.result = result
		h.err = err
		h.state = stateDone
		h.mu.Unlock()
		close(h.done)
	}
}

func safeCall(fn func() (interface{}, error)) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker job panicked: %v", r)
		}
	}()
	return fn()
}

// Submit enqueues fn under taskID. It fails with ThreadPoolError if the
// pool has been shut down.
func (p *Pool) Submit(taskID string, fn func() (interface{}, error)) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil, pipelineerrors.NewThreadPoolError("submit after shutdown", nil)
	}

	h := &handle{done: make(chan struct{}), state: stateSubmitted}
	p.handles[taskID] = h
	p.queue = append(p.queue, job{taskID: taskID, fn: fn})
	p.cond.Signal()
	return &Handle{TaskID: taskID}, nil
}

// GetResult blocks up to timeout for taskID's result. It returns
// (nil, false) on timeout, on an unknown task id, or if fn returned an
// error or panicked - callers that need the error itself should capture it
// inside fn's own return value.
func (p *Pool) GetResult(taskID string, timeout time.Duration) (interface{}, bool) {
	p.mu.Lock()
	h, ok := p.handles[taskID]
	p.mu.Unlock()
	if !ok {
		return nil, false
	}

	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.err != nil || h.state == stateCancelled {
			return nil, false
		}
		return h.result, true
	case <-time.After(timeout):
		return nil, false
	}
}

// IsDone reports whether taskID's job has finished (successfully, with an
// error, or cancelled).
func (p *Pool) IsDone(taskID string) bool {
	p.mu.Lock()
	h, ok := p.handles[taskID]
	p.mu.Unlock()
	if !ok {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == stateDone || h.state == stateCancelled
}

// Cancel cancels taskID's job if it has not yet started running. It
// reports whether the cancellation took effect.
func (p *Pool) Cancel(taskID string) bool {
	p.mu.Lock()
	h, ok := p.handles[taskID]
	p.mu.Unlock()
	if !ok {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateSubmitted {
		return false
	}
	h.state = stateCancelled
	close(h.done)

	p.mu.Lock()
	p.cancelled++
	p.mu.Unlock()
	return true
}

// WaitAll blocks up to timeout for every currently-known handle to finish.
// It returns false if the timeout elapses first.
func (p *Pool) WaitAll(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	p.mu.Lock()
	handles := make([]*handle, 0, len(p.handles))
	for _, h := range p.handles {
		handles = append(handles, h)
	}
	p.mu.Unlock()

	for _, h := range handles {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		select {
		case <-h.done:
		case <-time.After(remaining):
			return false
		}
	}
	return true
}

// GetActiveCount returns the number of jobs currently executing.
func (p *Pool) GetActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// GetPendingCount returns the number of jobs queued but not yet started.
func (p *Pool) GetPendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// GetStats returns a snapshot of pool-wide counters.
func (p *Pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		MaxWorkers: p.maxWorkers,
		Active:     p.active,
		Pending:    len(p.queue),
		Completed:  p.completed,
		Failed:     p.failed,
		Cancelled:  p.cancelled,
	}
}

// Shutdown transitions the pool to shut down; subsequent Submit calls
// fail. If wait is true, Shutdown blocks until all worker goroutines have
// drained the queue and exited.
func (p *Pool) Shutdown(wait bool) {
	p.mu.Lock()
	p.shutdown = true
	p.cond.Broadcast()
	p.mu.Unlock()

	if wait {
		p.wg.Wait()
	}
}
