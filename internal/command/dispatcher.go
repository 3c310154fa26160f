package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jwalitptl/appointment-booking/internal/model"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
)

// Registry is the subset of the booking service the console needs.
type Registry interface {
	RegisterDoctor(ctx context.Context, name, specialty string, rating int) (*model.Doctor, error)
	DeclareAvailability(ctx context.Context, doctorName string, rawSlots []string) (*model.AvailabilityReport, error)
	ListAvailability(ctx context.Context, specialty string, strategy model.RankingStrategy) ([]model.AvailabilityRow, error)
	RegisterPatient(ctx context.Context, name string) (*model.Patient, error)
	Book(ctx context.Context, patientName, doctorName, rawSlot string, waitlist bool) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID int) (*model.Booking, error)
	ListBookings(ctx context.Context, patientName string) ([]model.BookingView, error)
}

// Result carries whatever a command produced. Only the fields relevant to
// Command.Name are set.
type Result struct {
	Command   Command
	Doctor    *model.Doctor
	Report    *model.AvailabilityReport
	Specialty string
	Rows      []model.AvailabilityRow
	Patient   *model.Patient
	Booking   *model.Booking
	Bookings  []model.BookingView
	Exit      bool
}

type Dispatcher struct {
	registry Registry
	logger   *logger.Logger
}

func NewDispatcher(registry Registry, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{registry: registry, logger: log.Component("console")}
}

// Execute runs cmd against the registry. Errors are returned to the caller
// and never end the session.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (*Result, error) {
	res := &Result{Command: cmd}
	args := cmd.Args
	if len(args) < minArgs[cmd.Name] {
		return nil, apperrors.BadRequest(string(cmd.Name)+": missing arguments", nil)
	}

	var err error
	switch cmd.Name {
	case RegisterDoctor:
		rating := 0
		if len(args) > 2 {
			if rating, err = strconv.Atoi(args[2]); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("invalid rating %q", args[2]), err)
			}
		}
		res.Doctor, err = d.registry.RegisterDoctor(ctx, args[0], args[1], rating)

	case MarkAvailability:
		res.Report, err = d.registry.DeclareAvailability(ctx, args[0], args[1:])

	case ShowAvailability:
		strategy := model.RankByStartTime
		if len(args) > 1 {
			strategy = model.RankingStrategy(args[1])
		}
		res.Specialty = args[0]
		res.Rows, err = d.registry.ListAvailability(ctx, args[0], strategy)

	case RegisterPatient:
		res.Patient, err = d.registry.RegisterPatient(ctx, args[0])

	case BookAppointment:
		waitlist := false
		if len(args) > 3 {
			if waitlist, err = strconv.ParseBool(args[3]); err != nil {
				return nil, apperrors.BadRequest(fmt.Sprintf("invalid waitlist flag %q", args[3]), err)
			}
		}
		res.Booking, err = d.registry.Book(ctx, args[0], args[1], args[2], waitlist)

	case CancelBooking:
		id, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid booking id %q", args[0]), convErr)
		}
		res.Booking, err = d.registry.Cancel(ctx, id)

	case ShowAppointments:
		res.Bookings, err = d.registry.ListBookings(ctx, args[0])

	case Exit:
		res.Exit = true

	default:
		return nil, apperrors.BadRequest("invalid command", nil)
	}

	if err != nil {
		d.logger.Debug("command failed", "command", string(cmd.Name), "error", err.Error())
		return nil, err
	}
	return res, nil
}
