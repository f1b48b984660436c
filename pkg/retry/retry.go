// Package retry provides a bounded retry policy for unreliable upstream calls.
// The policy is independent of any specific transport: callers supply a
// classifier that maps errors to retry classes.
package retry

import (
	"context"
	"time"
)

// Class describes how an attempt error should be handled.
type Class int

const (
	// Terminal errors are surfaced immediately, no further attempts.
	Terminal Class = iota
	// Transient errors come from the upstream signalling temporary overload
	// (503/504-equivalent) and are retried after the longer delay.
	Transient
	// Transport errors are network-level failures and are retried after the
	// shorter delay.
	Transport
)

// Classifier maps an attempt error to a retry class.
type Classifier func(error) Class

// Policy is a bounded retry policy with per-class delays.
type Policy struct {
	MaxAttempts    int
	TransientDelay time.Duration
	TransportDelay time.Duration
	Classify       Classifier
}

// Do runs op up to MaxAttempts times. Terminal errors stop the loop
// immediately; the last attempt's error is returned when the budget is
// exhausted. Delays respect context cancellation.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}

		class := Terminal
		if p.Classify != nil {
			class = p.Classify(err)
		}
		if class == Terminal || attempt == attempts {
			return err
		}

		delay := p.TransportDelay
		if class == Transient {
			delay = p.TransientDelay
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return err
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
