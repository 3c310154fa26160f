package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

	log.Info("booking created", "booking_id", 1001, "doctor", "Alice")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booking created", entry["message"])
	assert.Equal(t, float64(1001), entry["booking_id"])
	assert.Equal(t, "Alice", entry["doctor"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: WarnLevel, Output: &buf, JSON: true})

	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Error(errors.New("boom"), "failed to publish event")
	assert.Contains(t, buf.String(), "boom")
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true}).
		WithFields(map[string]interface{}{"component": "registry"})

	log.Debug("slot rejected")
	assert.Contains(t, buf.String(), `"component":"registry"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
}

func TestLogger_ServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, Service: "booking-api"})

	base.Component("registry").Warn("event emit failed", "event_type", "BOOKING_CREATED")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking-api", entry["service"])
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "BOOKING_CREATED", entry["event_type"])

	buf.Reset()
	base.Info("plain line")
	entry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "component")
	assert.Equal(t, "booking-api", entry["service"])
}

func TestLogger_Defaults(t *testing.T) {
	assert.Equal(t, InfoLevel, NewLogger(nil).Zerolog().GetLevel())
	assert.NotPanics(t, func() { Nop().Component("x").Error(errors.New("boom"), "discarded") })
}
