// Package clock abstracts wall-clock time so timer driven code can run against a
// virtual clock in tests.
package clock

import (
	"context"
	"time"
)

// Timer is a cancellable handle returned by AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Sleep(ctx context.Context, d time.Duration) error
}

// Real is the production clock backed by package time.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
