package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shaigo/knowledgehub/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuit_breaker.New(10, 50*time.Millisecond, 0.3, 2)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// enough failures to exceed the percentile and open
	for i := 0; i < 4; i++ {
		_ = cb.Call(failingService)
	}
	err := cb.Call(successfulService)
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)

	// after the timeout the breaker probes in half-open and recovers
	time.Sleep(60 * time.Millisecond)
	cb.Reset()
	for i := 0; i < 5; i++ {
		require.NoError(t, cb.Call(successfulService))
	}
}

func Test_circuitBreaker_HalfOpenReopens(t *testing.T) {
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuit_breaker.New(4, 20*time.Millisecond, 0.5, 1)

	for i := 0; i < 4; i++ {
		_ = cb.Call(failingService)
	}
	require.ErrorIs(t, cb.Call(failingService), circuit_breaker.ErrOpenCB)

	// the probe call fails, the breaker opens again immediately
	time.Sleep(30 * time.Millisecond)
	err := cb.Call(failingService)
	require.Error(t, err)
	require.NotErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.ErrorIs(t, cb.Call(failingService), circuit_breaker.ErrOpenCB)
}
