// internal/leads/retry.go
package leads

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidOutput marks model output that never passed validation.
var ErrInvalidOutput = errors.New("LEAD_SIGNALS_INVALID")

// RetryPolicy allows one attempt per listed temperature, in order.
type RetryPolicy struct {
	Temperatures []float64
	// OnInvalid, if set, observes each rejected attempt.
	OnInvalid func(attempt int, raw string, err error)
}

// DefaultRetryPolicy is one attempt at 0.1 and a single retry at 0.0.
// Each call returns a fresh policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Temperatures: []float64{0.1, 0.0}}
}

// InvalidOutputError carries the last rejected output for diagnostics.
type InvalidOutputError struct {
	Attempts   int
	RawContent string
	Err        error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("invalid model output after %d attempts: %v", e.Attempts, e.Err)
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidOutput }

// RetryOnInvalid runs call once per policy temperature until parse accepts
// the output. Errors from call itself are returned at once; only parse
// failures consume another attempt. Each attempt replaces the previous
// one. The int result is the number of attempts made.
func RetryOnInvalid[T any](
	ctx context.Context,
	policy RetryPolicy,
	call func(ctx context.Context, temperature float64) (string, error),
	parse func(raw string) (T, error),
) (T, int, error) {
	var zero T
	if len(policy.Temperatures) == 0 {
		return zero, 0, errors.New("retry policy allows no attempts")
	}

	var (
		lastRaw string
		lastErr error
	)
	for i, temperature := range policy.Temperatures {
		if err := ctx.Err(); err != nil {
			return zero, i, err
		}

		raw, err := call(ctx, temperature)
		if err != nil {
			return zero, i + 1, err
		}

		value, err := parse(raw)
		if err == nil {
			return value, i + 1, nil
		}

		lastRaw, lastErr = raw, err
		if policy.OnInvalid != nil {
			policy.OnInvalid(i+1, raw, err)
		}
	}

	return zero, len(policy.Temperatures), &InvalidOutputError{
		Attempts:   len(policy.Temperatures),
		RawContent: lastRaw,
		Err:        lastErr,
	}
}
