package worker

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
	"time"
)

var errPanic = errors.New("worker task panicked")

// Task is one unit of background work, such as copying a saved file to the
// clipboard.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// ResultCallback is invoked on task completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(name string, err error)

// Pool is a fixed-size worker pool with a bounded input queue (strict back-pressure).
type Pool struct {
	mu     sync.Mutex
	closed bool
	jobs   chan job
	wg     sync.WaitGroup
}

type job struct {
	ctx  context.Context
	task Task
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	return NewWithQueue(size, 1)
}

// NewWithQueue is New with room for queue pending tasks (at least one).
func NewWithQueue(size, queue int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if queue < 1 {
		queue = 1
	}
	p := &Pool{jobs: make(chan job, queue)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				started := time.Now()
				err := run(j)
				log.Printf("Worker: %s finished in %v, err=%v", j.task.Name, time.Since(started).Round(time.Millisecond), err)
				if j.cb != nil {
					j.cb(j.task.Name, err)
				}
			}
		}()
	}
}

func run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in worker task %s: %v", j.task.Name, r)
			err = errPanic
		}
	}()
	if err := j.ctx.Err(); err != nil {
		return err
	}
	return j.task.Run(j.ctx)
}

// Submit enqueues a task if the queue has room. Returns false if dropped or
// the pool is closed.
func (p *Pool) Submit(ctx context.Context, task Task, cb ResultCallback) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job{ctx: ctx, task: task, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
