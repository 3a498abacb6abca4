package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 5}, func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("collision")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("collision")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 4}, func(int) error {
		calls++
		return boom
	})

	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.ErrorIs(t, err, boom)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	fatal := errors.New("store unreachable")
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 10}, func(int) error {
		calls++
		return Permanent(fatal)
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, ErrAttemptsExhausted)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, DefaultConfig(), func(int) error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := Config{
		MaxAttempts: 3,
		OnRetry:     func(attempt int, _ error) { attempts = append(attempts, attempt) },
	}

	_ = Do(context.Background(), cfg, func(int) error { return errors.New("x") })
	assert.Equal(t, []int{1, 2}, attempts)
}
