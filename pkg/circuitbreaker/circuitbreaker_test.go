package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func succeeding() error { return nil }

func TestOpensAfterThreshold(t *testing.T) {
	cb := New(Settings{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errBoom)
	}

	err := cb.Execute(succeeding)
	assert.ErrorIs(t, err, ErrOpen, "calls are rejected while open")
}

func TestProbeAfterCooldownClosesOnSuccess(t *testing.T) {
	cb := New(Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.ErrorIs(t, cb.Execute(succeeding), ErrOpen)

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, cb.Execute(succeeding))
	assert.NoError(t, cb.Execute(succeeding), "breaker stays closed after a successful probe")
}

func TestProbeFailureReopens(t *testing.T) {
	cb := New(Settings{FailureThreshold: 1, Cooldown: 10 * time.Millisecond})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	time.Sleep(20 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	assert.ErrorIs(t, cb.Execute(succeeding), ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{FailureThreshold: 2, Cooldown: time.Minute})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.NoError(t, cb.Execute(succeeding))
	require.ErrorIs(t, cb.Execute(failing), errBoom)

	assert.NoError(t, cb.Execute(succeeding), "one failure after a success must not open the breaker")
}
