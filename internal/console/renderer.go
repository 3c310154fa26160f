package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwalitptl/appointment-booking/internal/command"
	"github.com/jwalitptl/appointment-booking/internal/service/booking"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
	"github.com/jwalitptl/appointment-booking/pkg/validator"
)

// Prompt is printed before every command is read.
const Prompt = "Enter command:"

// Welcome lists the available commands.
func Welcome() string {
	names := make([]string, 0, len(command.Usage))
	for _, n := range command.Usage {
		names = append(names, string(n))
	}
	return fmt.Sprintf("Enter command (%s):", strings.Join(names, ", "))
}

type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) Render(res *command.Result) {
	switch res.Command.Name {
	case command.RegisterDoctor:
		r.println("Welcome Dr. %s !!", res.Doctor.Name)

	case command.MarkAvailability:
		for _, rej := range res.Report.Rejected {
			if validator.IsDurationError(rej.Err) {
				r.println("Invalid slot duration for Dr. %s. Slots must be exactly 60 minutes long", res.Report.Doctor)
			} else {
				r.println("Invalid slot format for Dr. %s. Slots must be in format 'hh:mm-hh:mm'", res.Report.Doctor)
			}
		}
		if len(res.Report.Accepted) > 0 {
			r.println("Done Doc!")
		}

	case command.ShowAvailability:
		r.println("%s", res.Specialty)
		for i, row := range res.Rows {
			r.println("Dr. %s: (%s)", row.Doctor, row.Slot)
			if i == len(res.Rows)-1 || res.Rows[i+1].Doctor != row.Doctor {
				r.println("")
			}
		}

	case command.RegisterPatient:
		r.println("%s registered successfully.", res.Patient.Name)

	case command.BookAppointment:
		if res.Booking.Waitlisted {
			r.println("Added to the waitlist. Booking id: %d", res.Booking.ID)
		} else {
			r.println("Booked. Booking id: %d", res.Booking.ID)
		}

	case command.CancelBooking:
		r.println("Booking Cancelled")

	case command.ShowAppointments:
		for _, b := range res.Bookings {
			r.println("Booking id: %d, Dr %s %s", b.ID, b.Doctor, b.Slot)
		}
	}
}

// RenderError prints a one-line message for err. The session continues.
func (r *Renderer) RenderError(err error) {
	switch {
	case errors.Is(err, booking.ErrDoctorNotFound):
		r.println("Doctor not found!")
	case errors.Is(err, booking.ErrPatientNotFound):
		r.println("Patient not found!")
	case errors.Is(err, booking.ErrBookingNotFound):
		r.println("Booking not found!")
	case errors.Is(err, booking.ErrSlotAlreadyBooked):
		r.println("Slot already booked!")
	case errors.Is(err, booking.ErrSlotUnavailable):
		r.println("Slot not available for booking!")
	case validator.IsFormatError(err):
		r.println("Invalid slot format. Slots must be in format 'hh:mm-hh:mm'")
	case validator.IsDurationError(err):
		r.println("Invalid slot duration. Slots must be exactly 60 minutes long")
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrBadRequest && appErr.Message == "invalid command" {
			r.println("Invalid command!")
			return
		}
		if errors.As(err, &appErr) && appErr.Code != apperrors.ErrInternal {
			r.println("Error: %s", appErr.Message)
			return
		}
		r.println("Error: %v", err)
	}
}

func (r *Renderer) println(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", args...)
}
