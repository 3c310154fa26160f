package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_String(t *testing.T) {
	assert.Equal(t, "09:00-10:00", NewSlot(9*60, 10*60).String())
	assert.Equal(t, "23:30-24:30", NewSlot(23*60+30, 24*60+30).String())
	assert.True(t, Slot{}.IsZero())
}

func TestSlot_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(AvailabilityRow{Doctor: "Alice", Slot: NewSlot(540, 600)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"doctor":"Alice","slot":"09:00-10:00"}`, string(b))
}

func TestNewDoctor_DefaultRating(t *testing.T) {
	assert.Equal(t, DefaultRating, NewDoctor("Alice", "Cardiology", 0).Rating)
	assert.Equal(t, 5, NewDoctor("Alice", "Cardiology", 5).Rating)
}

func TestDoctor_TakeAndReleaseSlot(t *testing.T) {
	d := NewDoctor("Alice", "Cardiology", 4)
	nine := NewSlot(540, 600)
	ten := NewSlot(600, 660)
	d.DeclareAvailability(nine, ten, nine)

	snapshot := d.Clone()

	require.True(t, d.TakeSlot(nine))
	assert.Equal(t, []Slot{ten, nine}, d.Availability)
	assert.True(t, d.IsAvailable(nine))

	require.True(t, d.TakeSlot(nine))
	assert.False(t, d.IsAvailable(nine))
	assert.False(t, d.TakeSlot(nine))

	d.ReleaseSlot(nine)
	assert.Equal(t, []Slot{ten, nine}, d.Availability)

	// the clone is unaffected by later mutations
	assert.Equal(t, []Slot{nine, ten, nine}, snapshot.Availability)
}

func TestPatient_Bookings(t *testing.T) {
	p := NewPatient("Bob")
	p.AddBooking(1003, NewSlot(600, 660), "Alice")
	p.AddBooking(1001, NewSlot(540, 600), "Alice")

	assert.Equal(t, []int{1001, 1003}, p.BookingIDs())

	c := p.Clone()
	assert.True(t, p.RemoveBooking(1001))
	assert.False(t, p.RemoveBooking(1001))
	assert.Equal(t, []int{1003}, p.BookingIDs())
	assert.Equal(t, []int{1001, 1003}, c.BookingIDs())
}
