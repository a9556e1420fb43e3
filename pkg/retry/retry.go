// Package retry wraps fallible operations with bounded exponential-backoff
// retry. The executor retries every failure uniformly up to the attempt
// limit; it never inspects error types on its own. Callers that know a
// failure is terminal mark it with Permanent, which stops the loop on first
// occurrence and returns the original error unchanged.
package retry

import (
	"errors"
	"log"
	"time"

	"storefront/internal/apperrors"
)

// Config controls the retry loop. The zero value uses the defaults.
type Config struct {
	MaxAttempts int           // default 3
	BaseDelay   time.Duration // default 1s
}

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	return c
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error
// as-is, without further attempts and without retry-exhausted wrapping.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op up to cfg.MaxAttempts times, sequentially. After failed
// attempt k it sleeps cfg.BaseDelay * 2^(k-1) — pure exponential backoff,
// no jitter. The sleep blocks only the calling goroutine.
//
// When the final attempt fails, the last error is wrapped in a
// retry-exhausted error tagged with label, unless it is already a domain
// error, which propagates unchanged.
func Do[T any](label string, cfg Config, op func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		if attempt >= cfg.MaxAttempts {
			if apperrors.IsDomain(err) {
				return zero, err
			}
			return zero, apperrors.RetryExhausted(label, attempt, err)
		}

		delay := cfg.BaseDelay << (attempt - 1)
		log.Printf("%s: attempt %d/%d failed (%v), retrying in %s", label, attempt, cfg.MaxAttempts, err, delay)
		time.Sleep(delay)
	}
}
