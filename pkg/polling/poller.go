package polling

import (
	"context"
	"fmt"
	"time"
)

// Sleeper waits between polling attempts. Implementations must return
// early with ctx.Err() when the context is cancelled mid-wait.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper waits on the wall clock.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config controls one polling run. The effective wall-clock timeout is
// Interval * MaxAttempts; derive MaxAttempts from a desired timeout with
// FromTimeout to keep the two consistent.
type Config struct {
	Interval    time.Duration
	MaxAttempts int

	// Sleeper defaults to the wall clock when nil.
	Sleeper Sleeper
}

// DefaultConfig polls every two seconds for up to two minutes.
func DefaultConfig() Config {
	return Config{Interval: 2 * time.Second, MaxAttempts: 60}
}

// FromTimeout derives a Config whose attempt budget covers the given
// wall-clock timeout at the given interval.
func FromTimeout(timeout, interval time.Duration) Config {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	attempts := int((timeout + interval - 1) / interval)
	if attempts < 1 {
		attempts = 1
	}
	return Config{Interval: interval, MaxAttempts: attempts}
}

// TimeoutError reports that the predicate was never satisfied within the
// attempt budget. LastResult holds the final observed result for
// diagnostics.
type TimeoutError struct {
	Attempts   int
	LastResult any
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("polling: condition not met after %d attempts", e.Attempts)
}

// Poll invokes op and tests done on its result; while done reports false
// it sleeps for cfg.Interval and retries, up to cfg.MaxAttempts
// invocations of op. An error from op terminates polling immediately and
// propagates unchanged. Cancelling the context aborts before the next
// attempt; a result already obtained and accepted by done is never
// discarded.
func Poll[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error), done func(T) bool) (T, error) {
	var zero T
	if cfg.MaxAttempts < 1 {
		return zero, fmt.Errorf("polling: MaxAttempts must be at least 1, got %d", cfg.MaxAttempts)
	}
	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = realSleeper{}
	}

	var last T
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err != nil {
			return zero, err
		}
		if done(result) {
			return result, nil
		}
		last = result

		if attempt >= cfg.MaxAttempts {
			break
		}
		if err := sleeper.Sleep(ctx, cfg.Interval); err != nil {
			return zero, err
		}
	}
	return zero, &TimeoutError{Attempts: cfg.MaxAttempts, LastResult: last}
}
