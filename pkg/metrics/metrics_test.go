package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestNewMetrics_RegistersUnderNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("booking", reg)

	m.OpenSlots.Set(3)
	m.ActiveBookings.Inc()

	f := family(t, reg, "booking_open_slots")
	require.NotNil(t, f)
	assert.Equal(t, dto.MetricType_GAUGE, f.GetType())
	assert.Equal(t, 3.0, f.GetMetric()[0].GetGauge().GetValue())

	var active dto.Metric
	require.NoError(t, m.ActiveBookings.Write(&active))
	assert.Equal(t, 1.0, active.GetGauge().GetValue())

	assert.NotNil(t, family(t, reg, "booking_events_published_total"))
	assert.NotNil(t, family(t, reg, "booking_event_publish_duration_seconds"))
}

func TestNewMetrics_LabelledCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("booking", reg)

	assert.Nil(t, family(t, reg, "booking_bookings_created_total"), "vectors without children are not exported")

	m.BookingsCreated.WithLabelValues("true").Inc()
	m.BookingsCreated.WithLabelValues("false").Add(2)

	f := family(t, reg, "booking_bookings_created_total")
	require.NotNil(t, f)
	assert.Equal(t, dto.MetricType_COUNTER, f.GetType())

	values := map[string]float64{}
	for _, metric := range f.GetMetric() {
		require.Len(t, metric.GetLabel(), 1)
		assert.Equal(t, "waitlist", metric.GetLabel()[0].GetName())
		values[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"true": 1, "false": 2}, values)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("booking", reg)

	assert.Panics(t, func() { NewMetrics("booking", reg) })
	assert.NotPanics(t, func() { NewMetrics("other", reg) })
}
