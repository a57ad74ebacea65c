package usage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrDispatcherClosed is returned by Submit after Close.
var ErrDispatcherClosed = errors.New("usage: dispatcher closed")

// ErrQueueFull is returned by Submit when every worker is busy and the
// queue has no room. The job is dropped.
var ErrQueueFull = errors.New("usage: dispatch queue full")

// Job is a unit of background work. It must not assume it will ever run.
type Job func(ctx context.Context)

// Dispatcher runs jobs on a fixed pool of workers, off the caller's
// goroutine. Submission never blocks: when the queue is full the job is
// dropped.
type Dispatcher struct {
	logger *usageLogger
	queue  chan Job
	group  *errgroup.Group
	cancel context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	pending inflight
	dropped atomic.Int64
}

// inflight counts queued and running jobs. idle is closed whenever the
// count is zero.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (f *inflight) Add() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.n == 0 {
		f.idle = make(chan struct{})
	}
	f.n++
}

func (f *inflight) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.n--
	if f.n == 0 {
		close(f.idle)
	}
}

func (f *inflight) Idle() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.n == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return f.idle
}

func NewDispatcher(logger *usageLogger, workers, queueSize int) *Dispatcher {
	workers = max(workers, 1)
	queueSize = max(queueSize, 0)

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Job, queueSize),
		group:  group,
		cancel: cancel,
	}
	for range workers {
		group.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	return d
}

func (d *Dispatcher) work(ctx context.Context) {
	for job := range d.queue {
		d.run(ctx, job)
	}
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	defer d.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Debug("Dispatch job panicked", "panic", r)
		}
	}()

	job(ctx)
}

// Submit enqueues job without blocking.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	d.pending.Add()
	select {
	case d.queue <- job:
		return nil
	default:
		d.pending.Done()
		d.dropped.Add(1)
		return ErrQueueFull
	}
}

// Dropped returns how many jobs were discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Flush waits until every submitted job has finished or ctx is done.
func (d *Dispatcher) Flush(ctx context.Context) error {
	select {
	case <-d.pending.Idle():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for queued ones to finish. If ctx
// ends first, in-flight jobs are cancelled and ctx's error is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- d.group.Wait()
	}()

	select {
	case err := <-done:
		d.cancel()
		return err
	case <-ctx.Done():
		d.cancel()
		return ctx.Err()
	}
}
