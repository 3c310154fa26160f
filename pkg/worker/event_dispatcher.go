package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/appointment-booking/pkg/event"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
	"github.com/jwalitptl/appointment-booking/pkg/messaging"
	"github.com/jwalitptl/appointment-booking/pkg/metrics"
)

type EventDispatcherConfig struct {
	Channel       string
	RetryAttempts int
	RetryDelay    time.Duration
}

// EventDispatcher drains the outbox and publishes every event to the broker.
type EventDispatcher struct {
	outbox  *event.Outbox
	broker  messaging.Broker
	config  EventDispatcherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewEventDispatcher(
	outbox *event.Outbox,
	broker messaging.Broker,
	config EventDispatcherConfig,
	log *logger.Logger,
	metrics *metrics.Metrics,
) *EventDispatcher {
	// Config validation instead of defaults
	if config.Channel == "" {
		panic("Channel must not be empty")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.RetryDelay < 0 {
		panic("RetryDelay must not be negative")
	}

	if log == nil {
		log = logger.Nop()
	}

	return &EventDispatcher{
		outbox:  outbox,
		broker:  broker,
		config:  config,
		logger:  log.Component("event_dispatcher"),
		metrics: metrics,
	}
}

// Start blocks until ctx is cancelled or the outbox is closed. Events still
// queued when the outbox closes are published before Start returns.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting event dispatcher", "channel", d.config.Channel)

	events := d.outbox.Events()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down event dispatcher", "pending", d.outbox.Len())
			return
		case evt, ok := <-events:
			if !ok {
				d.logger.Info("Event outbox closed, dispatcher stopping")
				return
			}
			if d.metrics != nil {
				d.metrics.EventQueueSize.Set(float64(d.outbox.Len()))
			}
			if err := d.dispatch(ctx, evt); err != nil {
				d.logger.Error(err, "Failed to publish event",
					"event_id", evt.ID.String(),
					"event_type", string(evt.EventType))
			}
		}
	}
}

func (d *EventDispatcher) dispatch(ctx context.Context, evt *event.OutboxEvent) error {
	if d.metrics != nil {
		timer := prometheus.NewTimer(d.metrics.EventPublishLatency)
		defer timer.ObserveDuration()
	}

	err := retry(ctx, d.config.RetryAttempts, d.config.RetryDelay, func(attempt int) error {
		if attempt > 0 {
			evt.RetryCount++
			if d.metrics != nil {
				d.metrics.EventPublishRetries.WithLabelValues(string(evt.EventType)).Inc()
			}
		}
		return d.broker.Publish(ctx, d.config.Channel, evt)
	})

	if err != nil {
		errStr := err.Error()
		evt.Status = event.OutboxStatusFailed
		evt.ErrorMessage = &errStr
		if d.metrics != nil {
			d.metrics.EventsFailed.Inc()
		}
		return fmt.Errorf("failed to publish %s after %d attempts: %w", evt.EventType, evt.RetryCount+1, err)
	}

	now := time.Now()
	evt.Status = event.OutboxStatusProcessed
	evt.ProcessedAt = &now
	if d.metrics != nil {
		d.metrics.EventsPublished.Inc()
	}
	d.logger.Debug("Event published", "event_id", evt.ID.String(), "event_type", string(evt.EventType))
	return nil
}

// retry calls fn up to attempts times, waiting delay between calls.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(attempt int) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(i); err == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return err
}
