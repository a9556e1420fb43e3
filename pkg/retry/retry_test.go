package retry_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/internal/apperrors"
	"storefront/pkg/retry"
)

func TestDo_ReturnsResultOnFirstSuccess(t *testing.T) {
	calls := 0
	result, err := retry.Do("noop", retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() (string, error) {
		calls++
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	base := 20 * time.Millisecond
	calls := 0
	start := time.Now()

	result, err := retry.Do("flaky op", retry.Config{MaxAttempts: 3, BaseDelay: base}, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient failure")
		}
		return "ok", nil
	})
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
	// Two failed attempts wait base then 2*base.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	underlying := errors.New("still broken")
	calls := 0

	_, err := retry.Do("doomed op", retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() (int, error) {
		calls++
		return 0, fmt.Errorf("attempt %d: %w", calls, underlying)
	})

	assert.Equal(t, 3, calls)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindRetryExhausted, apperrors.KindOf(err))
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "doomed op")
}

func TestDo_PermanentStopsOnFirstOccurrence(t *testing.T) {
	terminal := apperrors.InvalidOrder([]string{"product 1: requested 2, available 1"})
	calls := 0

	_, err := retry.Do("create order transaction", retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() (int, error) {
		calls++
		return 0, retry.Permanent(terminal)
	})

	assert.Equal(t, 1, calls)
	// The original error comes back unchanged, with no wrapping.
	assert.Same(t, terminal, err)
}

func TestDo_DomainErrorNeverDoubleWrapped(t *testing.T) {
	// An unmarked domain error is retried uniformly like anything else,
	// but exhaustion must re-raise it unchanged instead of wrapping it.
	domain := apperrors.OrderNotFound(42)
	calls := 0

	_, err := retry.Do("read order", retry.Config{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() (int, error) {
		calls++
		return 0, domain
	})

	assert.Equal(t, 3, calls)
	assert.Same(t, domain, err)
	assert.Equal(t, apperrors.KindOrderNotFound, apperrors.KindOf(err))
}

func TestPermanent_NilStaysNil(t *testing.T) {
	assert.NoError(t, retry.Permanent(nil))
}
