package locker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when a lock cannot be acquired within the wait bound.
// Callers may retry the operation.
var ErrBusy = errors.New("account is busy")

// Locker serializes mutations per account number. Multi-key acquisition
// always proceeds in ascending order so opposite-direction transfers
// cannot deadlock.
type Locker struct {
	timeout time.Duration

	mu   sync.Mutex
	sems map[int]*semaphore.Weighted
}

func New(timeout time.Duration) *Locker {
	return &Locker{
		timeout: timeout,
		sems:    make(map[int]*semaphore.Weighted),
	}
}

func (l *Locker) sem(key int) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = semaphore.NewWeighted(1)
		l.sems[key] = s
	}
	return s
}

// Acquire takes the locks for the given keys, waiting at most the configured
// timeout per key. On failure every lock taken so far is released and ErrBusy
// is returned. Duplicate keys are collapsed.
func (l *Locker) Acquire(ctx context.Context, keys ...int) error {
	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)

	acquired := make([]int, 0, len(sorted))
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
		err := l.sem(key).Acquire(waitCtx, 1)
		cancel()
		if err != nil {
			l.Release(acquired...)
			return fmt.Errorf("%w: account %d", ErrBusy, key)
		}
		acquired = append(acquired, key)
	}
	return nil
}

func (l *Locker) Release(keys ...int) {
	sorted := append([]int(nil), keys...)
	sort.Ints(sorted)
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		l.sem(key).Release(1)
	}
}
