package booking

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotUnavailable   = errors.New("slot not available for booking")
	ErrSlotAlreadyBooked = errors.New("slot already booked")
)
