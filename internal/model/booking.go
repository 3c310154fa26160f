package model

import "time"

// FirstBookingID is the counter value before the first booking; ids start at FirstBookingID+1.
const FirstBookingID = 1000

type Booking struct {
	ID          int       `json:"id"`
	PatientName string    `json:"patient"`
	DoctorName  string    `json:"doctor"`
	Slot        Slot      `json:"slot"`
	Waitlisted  bool      `json:"waitlisted"`
	CreatedAt   time.Time `json:"created_at"`
	// HoldsOpenSlot is set when the booking consumed one of the doctor's
	// declared copies of Slot. That copy goes back when the booking ends.
	HoldsOpenSlot bool `json:"-"`
}

// BookingView is one row of a patient's booking listing.
type BookingView struct {
	ID     int    `json:"id"`
	Doctor string `json:"doctor"`
	Slot   Slot   `json:"slot"`
}

type CreateBookingRequest struct {
	Patient  string `json:"patient" binding:"required"`
	Doctor   string `json:"doctor" binding:"required"`
	Slot     string `json:"slot" binding:"required,slot"`
	Waitlist bool   `json:"waitlist"`
}

type RegistryStats struct {
	Doctors        int `json:"doctors"`
	Patients       int `json:"patients"`
	ActiveBookings int `json:"active_bookings"`
	OpenSlots      int `json:"open_slots"`
	LastBookingID  int `json:"last_booking_id"`
}
