package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking related metrics
	BookingsCreated   *prometheus.CounterVec
	BookingsCancelled prometheus.Counter
	BookingConflicts  *prometheus.CounterVec
	SlotsRejected     *prometheus.CounterVec
	OpenSlots         prometheus.Gauge
	ActiveBookings    prometheus.Gauge

	// Event pipeline metrics
	EventsPublished     prometheus.Counter
	EventsFailed        prometheus.Counter
	EventsDropped       prometheus.Counter
	EventPublishLatency prometheus.Histogram
	EventPublishRetries *prometheus.CounterVec
	EventQueueSize      prometheus.Gauge
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg registers with the default prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created",
		}, []string{"waitlist"}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Total number of cancelled bookings",
		}),
		BookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of booking attempts rejected with a conflict",
		}, []string{"reason"}),
		SlotsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_rejected_total",
			Help:      "Total number of declared slots rejected by validation",
		}, []string{"reason"}),
		OpenSlots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_slots",
			Help:      "Current number of open slots across all doctors",
		}),
		ActiveBookings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_bookings",
			Help:      "Current number of active bookings",
		}),

		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of successfully published events",
		}),
		EventsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Total number of events that could not be published",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped because the outbox was full",
		}),
		EventPublishLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_publish_duration_seconds",
			Help:      "Time spent publishing events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		EventPublishRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_retries_total",
			Help:      "Total number of retry attempts for events",
		}, []string{"event_type"}),
		EventQueueSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_queue_size",
			Help:      "Current number of events waiting in the outbox",
		}),
	}
}
