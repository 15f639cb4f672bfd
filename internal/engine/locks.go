package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLockTimeout indicates that exclusive access to an account could not be
// obtained within the configured bound. The operation did not run and is safe
// to retry.
var ErrLockTimeout = errors.New("timed out waiting for account lock")

// lockArena hands out per-account lock handles so that operations on the
// same account serialize while operations on different accounts proceed
// independently. Handles are created lazily and reused for the lifetime of
// the arena.
type lockArena struct {
	timeout time.Duration
	handles sync.Map // uuid.UUID -> chan struct{}
}

func newLockArena(timeout time.Duration) *lockArena {
	return &lockArena{timeout: timeout}
}

func (a *lockArena) handle(id uuid.UUID) chan struct{} {
	if v, ok := a.handles.Load(id); ok {
		return v.(chan struct{})
	}
	v, _ := a.handles.LoadOrStore(id, make(chan struct{}, 1))
	return v.(chan struct{})
}

// acquire obtains the lock for one account. Acquisition is bounded by the
// arena timeout and by the caller's context.
func (a *lockArena) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	h := a.handle(id)

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case h <- struct{}{}:
		return func() { <-h }, nil
	case <-timer.C:
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// acquirePair obtains locks for two accounts in ascending ID order so that
// concurrent transfers touching the same pair can never deadlock.
func (a *lockArena) acquirePair(ctx context.Context, first, second uuid.UUID) (func(), error) {
	if strings.Compare(first.String(), second.String()) > 0 {
		first, second = second, first
	}

	releaseFirst, err := a.acquire(ctx, first)
	if err != nil {
		return nil, err
	}
	releaseSecond, err := a.acquire(ctx, second)
	if err != nil {
		releaseFirst()
		return nil, err
	}

	return func() {
		releaseSecond()
		releaseFirst()
	}, nil
}
