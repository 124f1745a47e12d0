package pipeline

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Runner executes pipeline work decoupled from the request that enqueued
// it. The caller gets no result channel; outcomes are observable only
// through persisted state and logs.
type Runner interface {
	Enqueue(task func(ctx context.Context))
}

// AsyncRunner runs tasks one at a time on a background goroutine, in
// enqueue order. Enqueue blocks only when the queue is full.
type AsyncRunner struct {
	tasks chan func(ctx context.Context)
	done  chan struct{}
	log   *logrus.Logger

	stopOnce sync.Once
}

// NewAsyncRunner starts the runner's executor goroutine. Tasks receive
// ctx, which outlives any single HTTP request; cancelling it asks
// in-flight runs to stop at their next product boundary.
func NewAsyncRunner(ctx context.Context, queueSize int, log *logrus.Logger) *AsyncRunner {
	r := &AsyncRunner{
		tasks: make(chan func(ctx context.Context), queueSize),
		done:  make(chan struct{}),
		log:   log,
	}

	go func() {
		defer close(r.done)
		for task := range r.tasks {
			r.runOne(ctx, task)
		}
	}()

	return r
}

// runOne keeps a panicking task from taking the executor down with it.
func (r *AsyncRunner) runOne(ctx context.Context, task func(ctx context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.WithField("panic", rec).Error("background task panicked")
		}
	}()
	task(ctx)
}

// Enqueue hands a task to the executor.
func (r *AsyncRunner) Enqueue(task func(ctx context.Context)) {
	r.tasks <- task
}

// Stop stops accepting work and waits for queued tasks to drain.
func (r *AsyncRunner) Stop() {
	r.stopOnce.Do(func() {
		close(r.tasks)
	})
	<-r.done
}

// SyncRunner executes tasks inline. Used in tests, where the asynchronous
// boundary would only add sleeps.
type SyncRunner struct{}

// Enqueue runs the task immediately on the calling goroutine.
func (SyncRunner) Enqueue(task func(ctx context.Context)) {
	task(context.Background())
}
