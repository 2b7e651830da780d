package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable marks a network backend that could not be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// retryAttempts bounds RetryWithBackoff; retryDelay is its first pause and
// doubles after every failed attempt.
var (
	retryAttempts = 3
	retryDelay    = 200 * time.Millisecond
)

type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

// Retryable marks err so RetryWithBackoff tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryableError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re retryableError
	return errors.As(err, &re)
}

// transient marks a backend failure as a retryable ErrUnavailable. Context
// errors pass through unchanged so cancellation ends the retry loop.
func transient(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return Retryable(fmt.Errorf("%w: %w", ErrUnavailable, err))
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or runs out of attempts. It returns ctx.Err() if ctx ends while
// waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= retryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
