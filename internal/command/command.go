package command

import (
	"strings"

	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
)

type Name string

const (
	RegisterDoctor   Name = "registerDoc"
	MarkAvailability Name = "markDocAvail"
	ShowAvailability Name = "showAvailByspeciality"
	RegisterPatient  Name = "registerPatient"
	BookAppointment  Name = "bookAppointment"
	CancelBooking    Name = "cancelBookingId"
	ShowAppointments Name = "showAppointmentsBooked"
	Exit             Name = "exit"
)

// minArgs is the number of required arguments per command.
var minArgs = map[Name]int{
	RegisterDoctor:   2,
	MarkAvailability: 2,
	ShowAvailability: 1,
	RegisterPatient:  1,
	BookAppointment:  3,
	CancelBooking:    1,
	ShowAppointments: 1,
	Exit:             0,
}

// Usage lists the commands in the order they are shown to users.
var Usage = []Name{
	RegisterDoctor,
	MarkAvailability,
	ShowAvailability,
	RegisterPatient,
	BookAppointment,
	CancelBooking,
	ShowAppointments,
	Exit,
}

type Command struct {
	Name Name
	Args []string
}

// Parse splits a console line into a command and its arguments.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, apperrors.BadRequest("empty command", nil)
	}

	name := Name(fields[0])
	required, ok := minArgs[name]
	if !ok {
		return Command{}, apperrors.BadRequest("invalid command", nil)
	}

	args := fields[1:]
	if len(args) < required {
		return Command{}, apperrors.BadRequest(string(name)+": missing arguments", nil)
	}

	return Command{Name: name, Args: args}, nil
}
