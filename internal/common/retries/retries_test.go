package retries

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestManageRetriesSucceedsImmediately(t *testing.T) {
	var attempts int
	err := ManageRetries(
		context.Background(),
		"test the happy path",
		3,
		time.Second,
		func() (bool, error) {
			attempts++
			return false, nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, 1, attempts)
}

func TestManageRetriesExhaustsAttempts(t *testing.T) {
	var attempts int
	err := ManageRetries(
		context.Background(),
		"always fail",
		3,
		time.Millisecond,
		func() (bool, error) {
			attempts++
			return true, errors.New("something went wrong")
		},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed 3 attempt(s)")
	require.Equal(t, 3, attempts)
}

func TestManageRetriesRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ManageRetries(
		ctx,
		"canceled before backoff elapses",
		10,
		time.Minute,
		func() (bool, error) {
			return true, errors.New("something went wrong")
		},
	)
	require.ErrorIs(t, err, context.Canceled)
}

func TestJitteredExpBackoffIsBounded(t *testing.T) {
	for i := uint8(1); i < 10; i++ {
		delay := jitteredExpBackoff(i, 10*time.Second)
		require.True(t, delay > 0)
		require.True(t, delay <= 10*time.Second)
	}
}
