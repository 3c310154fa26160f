package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPublish = errors.New("publish failed")

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(Settings{
		Name:             "redis-broker",
		Timeout:          time.Hour,
		FailureThreshold: 3,
		OnStateChange: func(name, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errPublish })
		assert.ErrorIs(t, err, errPublish)
	}
	assert.Equal(t, "open", cb.State())
	assert.Equal(t, []string{"closed->open"}, transitions)

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", FailureThreshold: 2, Timeout: time.Hour})

	require.Error(t, cb.Execute(func() error { return errPublish }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errPublish }))

	assert.Equal(t, "closed", cb.State())
	assert.Equal(t, "test", cb.Name())
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", FailureThreshold: 1, Timeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(func() error { return errPublish }))
	assert.Equal(t, "open", cb.State())

	assert.Eventually(t, func() bool { return cb.State() == "half-open" }, time.Second, 5*time.Millisecond)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, "closed", cb.State())
}
