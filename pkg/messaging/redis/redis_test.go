package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/appointment-booking/pkg/circuitbreaker"
)

func newTestBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	broker, err := NewRedisBroker(context.Background(), Config{
		URL:             "redis://" + mr.Addr(),
		MaxRetries:      -1,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	return broker.(*RedisBroker), mr
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	broker, _ := newTestBroker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := broker.Subscribe(ctx, "booking.events")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, "booking.events", map[string]interface{}{
		"event_type": "BOOKING_CREATED",
		"id":         1001,
	}))

	select {
	case msg := <-msgs:
		assert.JSONEq(t, `{"event_type":"BOOKING_CREATED","id":1001}`, string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}
}

func TestRedisBroker_Ping(t *testing.T) {
	broker, mr := newTestBroker(t)
	assert.NoError(t, broker.Ping(context.Background()))

	mr.Close()
	assert.Error(t, broker.Ping(context.Background()))
}

func TestRedisBroker_InvalidURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "not a url"}, nil)
	assert.Error(t, err)
}

func TestRedisBroker_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBroker(context.Background(), Config{URL: "redis://" + addr, MaxRetries: -1}, nil)
	assert.Error(t, err)
}

func TestRedisBroker_BreakerOpensWhenRedisIsDown(t *testing.T) {
	broker, mr := newTestBroker(t)
	ctx := context.Background()

	mr.Close()

	for i := 0; i < 2; i++ {
		err := broker.Publish(ctx, "booking.events", "x")
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrOpen)
	}

	err := broker.Publish(ctx, "booking.events", "x")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, "open", broker.cb.State())
}
