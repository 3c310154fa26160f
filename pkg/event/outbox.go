package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/appointment-booking/pkg/metrics"
)

var (
	ErrOutboxFull   = errors.New("event outbox is full")
	ErrOutboxClosed = errors.New("event outbox is closed")
)

// Outbox is an in-memory queue of events waiting to be published.
type Outbox struct {
	mu      sync.RWMutex
	closed  bool
	events  chan *OutboxEvent
	metrics *metrics.Metrics
}

func NewOutbox(size int, m *metrics.Metrics) *Outbox {
	if size <= 0 {
		size = 1
	}
	return &Outbox{
		events:  make(chan *OutboxEvent, size),
		metrics: m,
	}
}

func (o *Outbox) Emit(ctx context.Context, eventType EventType, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	evt := &OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrOutboxClosed
	}

	select {
	case o.events <- evt:
		if o.metrics != nil {
			o.metrics.EventQueueSize.Set(float64(len(o.events)))
		}
		return nil
	default:
		if o.metrics != nil {
			o.metrics.EventsDropped.Inc()
		}
		return ErrOutboxFull
	}
}

// Events is drained by the event dispatcher. It is closed by Close.
func (o *Outbox) Events() <-chan *OutboxEvent {
	return o.events
}

func (o *Outbox) Len() int {
	return len(o.events)
}

func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.events)
	}
}
