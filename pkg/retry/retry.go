// Package retry re-runs operations whose failures the caller marked as transient.
//
// The operation decides, not the retrier: wrap an error with Retryable to ask
// for another attempt, or with Permanent to stop at once. Unmarked errors stop
// the loop as well, so a caller that never marks anything gets a single attempt.
//
// Delays grow exponentially from Policy.InitialDelay up to Policy.MaxDelay, with
// a random jitter of up to Policy.Jitter of the delay in either direction.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR CLASSIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// transientError marks an error that is worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// permanentError marks an error that no number of attempts will fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// Permanent marks err as final. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked Retryable
// and not later marked Permanent.
func IsRetryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	var t *transientError
	return errors.As(err, &t)
}

// IsPermanent reports whether err, or anything it wraps, was marked Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// unmark strips the outermost classification so callers see the original error.
func unmark(err error) error {
	switch e := err.(type) {
	case *transientError:
		return e.err
	case *permanentError:
		return e.err
	default:
		return err
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// POLICY
// ══════════════════════════════════════════════════════════════════════════════

// Policy describes how many times to try and how long to wait in between.
type Policy struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration

	// Multiplier grows the wait after every attempt.
	Multiplier float64

	// Jitter is the fraction of the wait added or removed at random (0..1).
	Jitter float64
}

// DefaultPolicy returns three attempts starting at 100ms.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Backoff returns the wait after the given attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	wait := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if p.MaxDelay > 0 && wait > float64(p.MaxDelay) {
		wait = float64(p.MaxDelay)
	}

	if p.Jitter > 0 {
		wait += wait * p.Jitter * (rand.Float64()*2 - 1)
	}

	return time.Duration(math.Max(wait, 0))
}

// ══════════════════════════════════════════════════════════════════════════════
// RUNNER
// ══════════════════════════════════════════════════════════════════════════════

// Notify is called before each wait with the failed attempt, its error and the wait.
type Notify func(attempt int, err error, wait time.Duration)

// Run calls op until it succeeds, returns an unmarked or Permanent error,
// runs out of attempts, or ctx is done. The returned error has its
// Retryable/Permanent mark removed. notify may be nil.
func Run(ctx context.Context, p Policy, op func(context.Context) error, notify Notify) error {
	attempts := max(p.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return unmark(lastErr)
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == attempts {
			return unmark(err)
		}

		wait := p.Backoff(attempt)
		if notify != nil {
			notify(attempt, unmark(err), wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return unmark(lastErr)
		case <-timer.C:
		}
	}

	return unmark(lastErr)
}
