// internal/leads/retry_test.go
package leads

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}

func TestRetryOnInvalid(t *testing.T) {
	tests := []struct {
		name         string
		policy       RetryPolicy
		outputs      []string
		wantValue    int
		wantAttempts int
		wantInvalid  bool
		wantTemps    []float64
	}{
		{
			name:         "first attempt",
			policy:       DefaultRetryPolicy(),
			outputs:      []string{"7"},
			wantValue:    7,
			wantAttempts: 1,
			wantTemps:    []float64{0.1},
		},
		{
			name:         "second attempt",
			policy:       DefaultRetryPolicy(),
			outputs:      []string{"x", "8"},
			wantValue:    8,
			wantAttempts: 2,
			wantTemps:    []float64{0.1, 0.0},
		},
		{
			name:         "never more than the policy allows",
			policy:       DefaultRetryPolicy(),
			outputs:      []string{"x", "y", "9"},
			wantAttempts: 2,
			wantInvalid:  true,
			wantTemps:    []float64{0.1, 0.0},
		},
		{
			name:         "single attempt policy",
			policy:       RetryPolicy{Temperatures: []float64{0.3}},
			outputs:      []string{"x", "1"},
			wantAttempts: 1,
			wantInvalid:  true,
			wantTemps:    []float64{0.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var temps []float64
			call := func(_ context.Context, temperature float64) (string, error) {
				out := tt.outputs[len(temps)]
				temps = append(temps, temperature)
				return out, nil
			}

			value, attempts, err := RetryOnInvalid(context.Background(), tt.policy, call, parseInt)

			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Equal(t, tt.wantTemps, temps)
			if tt.wantInvalid {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidOutput))
				assert.Zero(t, value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestRetryOnInvalid_OnInvalidHook(t *testing.T) {
	var seen []int
	policy := DefaultRetryPolicy()
	policy.OnInvalid = func(attempt int, raw string, err error) {
		seen = append(seen, attempt)
		assert.Equal(t, "bad", raw)
		assert.Error(t, err)
	}

	call := func(context.Context, float64) (string, error) { return "bad", nil }
	_, _, err := RetryOnInvalid(context.Background(), policy, call, parseInt)

	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestRetryOnInvalid_CallErrorStopsImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	call := func(context.Context, float64) (string, error) {
		calls++
		return "", boom
	}

	_, attempts, err := RetryOnInvalid(context.Background(), DefaultRetryPolicy(), call, parseInt)

	assert.Same(t, boom, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetryOnInvalid_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	call := func(context.Context, float64) (string, error) {
		t.Fatal("call must not run on a cancelled context")
		return "", nil
	}

	_, attempts, err := RetryOnInvalid(ctx, DefaultRetryPolicy(), call, parseInt)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, attempts)
}

func TestRetryOnInvalid_EmptyPolicy(t *testing.T) {
	call := func(context.Context, float64) (string, error) { return "1", nil }
	_, attempts, err := RetryOnInvalid(context.Background(), RetryPolicy{}, call, parseInt)
	assert.Error(t, err)
	assert.Equal(t, 0, attempts)
}

func TestDefaultRetryPolicy_IsFresh(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.Temperatures = append(policy.Temperatures, 0.5, 0.9)
	policy.Temperatures[0] = 1.0

	assert.Equal(t, []float64{0.1, 0.0}, DefaultRetryPolicy().Temperatures)
}
