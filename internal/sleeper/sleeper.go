package sleeper

import (
	"context"
	"time"
)

// exponentialBackoffSleeper doubles the sleep duration
// after every sleep, up to the limit.
type exponentialBackoffSleeper struct {
	initial       time.Duration
	limit         time.Duration
	sleepDuration time.Duration
}

// NewExponentialSleeper creates a sleeper that starts with the initial
// duration and never sleeps longer than the limit.
// A zero limit means no limit.
func NewExponentialSleeper(initial, limit time.Duration) (*exponentialBackoffSleeper, error) {
	return &exponentialBackoffSleeper{
		initial:       initial,
		limit:         limit,
		sleepDuration: initial,
	}, nil
}

// Sleep blocks for the current duration or until the context is done.
func (e *exponentialBackoffSleeper) Sleep(ctx context.Context) error {
	t := time.NewTimer(e.sleepDuration)
	defer t.Stop()

	e.sleepDuration += e.sleepDuration
	if e.limit > 0 && e.sleepDuration > e.limit {
		e.sleepDuration = e.limit
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Reset
func (e *exponentialBackoffSleeper) Reset() {
	e.sleepDuration = e.initial
}
