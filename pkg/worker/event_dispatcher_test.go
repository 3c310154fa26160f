package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/appointment-booking/pkg/event"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
	"github.com/jwalitptl/appointment-booking/pkg/metrics"
)

type fakeBroker struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	published []*event.OutboxEvent
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failFirst {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, message.(*event.OutboxEvent))
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) snapshot() []*event.OutboxEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*event.OutboxEvent(nil), b.published...)
}

func newDispatcher(t *testing.T, broker *fakeBroker, attempts int) (*EventDispatcher, *event.Outbox, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	outbox := event.NewOutbox(16, m)
	d := NewEventDispatcher(outbox, broker, EventDispatcherConfig{
		Channel:       "booking.events",
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	}, logger.Nop(), m)
	return d, outbox, m
}

func TestEventDispatcher_PublishesInOrder(t *testing.T) {
	broker := &fakeBroker{}
	d, outbox, m := newDispatcher(t, broker, 1)
	ctx := context.Background()

	require.NoError(t, outbox.Emit(ctx, event.BookingCreated, map[string]int{"id": 1001}))
	require.NoError(t, outbox.Emit(ctx, event.BookingCancelled, map[string]int{"id": 1001}))
	outbox.Close()

	d.Start(ctx)

	published := broker.snapshot()
	require.Len(t, published, 2)
	assert.Equal(t, event.BookingCreated, published[0].EventType)
	assert.Equal(t, event.BookingCancelled, published[1].EventType)
	assert.Equal(t, event.OutboxStatusProcessed, published[0].Status)
	assert.NotNil(t, published[0].ProcessedAt)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, 1001, payload["id"])

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventsPublished))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.EventQueueSize))
}

func TestEventDispatcher_RetriesUntilSuccess(t *testing.T) {
	broker := &fakeBroker{failFirst: 2}
	d, outbox, m := newDispatcher(t, broker, 3)
	ctx := context.Background()

	require.NoError(t, outbox.Emit(ctx, event.PatientRegistered, map[string]string{"name": "Bob"}))
	outbox.Close()
	d.Start(ctx)

	published := broker.snapshot()
	require.Len(t, published, 1)
	assert.Equal(t, 2, published[0].RetryCount)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventPublishRetries.WithLabelValues(string(event.PatientRegistered))))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.EventsFailed))
}

func TestEventDispatcher_GivesUpAfterAttempts(t *testing.T) {
	broker := &fakeBroker{failFirst: 10}
	d, outbox, m := newDispatcher(t, broker, 2)
	ctx := context.Background()

	require.NoError(t, outbox.Emit(ctx, event.DoctorRegistered, map[string]string{"name": "Alice"}))
	require.NoError(t, outbox.Emit(ctx, event.DoctorRegistered, map[string]string{"name": "Carol"}))
	outbox.Close()
	d.Start(ctx)

	assert.Empty(t, broker.snapshot())
	assert.Equal(t, 4, broker.calls)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventsFailed))
}

func TestEventDispatcher_StopsOnContextCancel(t *testing.T) {
	d, _, _ := newDispatcher(t, &fakeBroker{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestNewEventDispatcher_InvalidConfig(t *testing.T) {
	outbox := event.NewOutbox(1, nil)
	assert.Panics(t, func() {
		NewEventDispatcher(outbox, &fakeBroker{}, EventDispatcherConfig{Channel: "c"}, logger.Nop(), nil)
	})
	assert.Panics(t, func() {
		NewEventDispatcher(outbox, &fakeBroker{}, EventDispatcherConfig{RetryAttempts: 1}, logger.Nop(), nil)
	})
}
