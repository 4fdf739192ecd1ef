package notify

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

type Task func() error

var ErrPoolClosed = errors.New("worker pool is closed")

// The backlog is bounded so a slow webhook endpoint pushes back on the
// poller instead of queueing events without limit.
const backlogPerWorker = 2

type WorkerPool struct {
	tasks     chan Task
	done      chan struct{}
	closeOnce sync.Once
}

func NewWorkerPool(workers int) *WorkerPool {
	wp := &WorkerPool{
		tasks: make(chan Task, workers*backlogPerWorker),
		done:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case <-wp.done:
			return
		case task := <-wp.tasks:
			if err := task(); err != nil {
				zap.L().Error("Task execution failed", zap.Error(err))
			}
		}
	}
}

func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	// Checked first: a buffered send could otherwise win the select below
	// against an already-closed pool.
	select {
	case <-wp.done:
		return ErrPoolClosed
	default:
	}

	select {
	case <-wp.done:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case wp.tasks <- task:
		return nil
	}
}

// Close stops the workers. Tasks still queued are dropped; an undelivered
// event stays unstamped and is picked up again on the next poll.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.done)
	})
}
