package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxRetryAfter caps how long [Retry] honours a server-requested delay.
// A longer Retry-After fails the call instead of stalling a tag refresh.
var MaxRetryAfter = time.Minute

// RetryableError marks a transient failure (transport error, 5xx) that
// [Retry] should attempt again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// delayer is implemented by errors that carry a server-requested wait, such
// as a rate-limit response with a Retry-After header.
type delayer interface {
	RetryDelay() time.Duration
}

// Retry runs fn up to attempts times.
//
// Errors wrapped in [RetryableError] are retried with exponential backoff
// starting at delay. Errors that carry a positive RetryDelay of at most
// [MaxRetryAfter] are retried after exactly that delay. Anything else is
// returned immediately, as is ctx.Err() when ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		wait, backoff, ok := retryWait(err, delay)
		if !ok {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if backoff {
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with 3 attempts and a 1 second initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// retryWait returns how long to wait before retrying err, whether that wait
// is the exponential backoff, and whether err is worth retrying at all.
func retryWait(err error, delay time.Duration) (wait time.Duration, backoff, ok bool) {
	var d delayer
	if errors.As(err, &d) {
		if wait := d.RetryDelay(); wait > 0 && wait <= MaxRetryAfter {
			return wait, false, true
		}
		return 0, false, false
	}
	if errors.As(err, new(*RetryableError)) {
		return delay, true, true
	}
	return 0, false, false
}
