package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	l := New(time.Second)

	err := l.Acquire(context.Background(), 1001)
	require.NoError(t, err)
	l.Release(1001)

	err = l.Acquire(context.Background(), 1001)
	require.NoError(t, err)
	l.Release(1001)
}

func TestAcquireBusy(t *testing.T) {
	l := New(50 * time.Millisecond)

	require.NoError(t, l.Acquire(context.Background(), 1001))
	defer l.Release(1001)

	err := l.Acquire(context.Background(), 1001)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestAcquireTwoKeysReleasesOnFailure(t *testing.T) {
	l := New(50 * time.Millisecond)

	// Hold the higher-numbered account so a pair acquisition fails midway.
	require.NoError(t, l.Acquire(context.Background(), 1002))

	err := l.Acquire(context.Background(), 1001, 1002)
	assert.ErrorIs(t, err, ErrBusy)

	// The lower-numbered lock must have been released again.
	require.NoError(t, l.Acquire(context.Background(), 1001))
	l.Release(1001)
	l.Release(1002)
}

func TestAcquireDuplicateKeys(t *testing.T) {
	l := New(time.Second)

	require.NoError(t, l.Acquire(context.Background(), 1001, 1001))
	l.Release(1001, 1001)

	require.NoError(t, l.Acquire(context.Background(), 1001))
	l.Release(1001)
}

func TestOppositeDirectionTransfersDoNotDeadlock(t *testing.T) {
	l := New(time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background(), 1001, 1002); err == nil {
				l.Release(1001, 1002)
			}
		}()
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background(), 1002, 1001); err == nil {
				l.Release(1002, 1001)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition deadlocked")
	}
}
