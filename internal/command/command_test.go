package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/appointment-booking/internal/model"
	"github.com/jwalitptl/appointment-booking/internal/service/booking"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr string
	}{
		{
			name: "register doctor",
			line: "registerDoc Alice Cardiology",
			want: Command{Name: RegisterDoctor, Args: []string{"Alice", "Cardiology"}},
		},
		{
			name: "extra whitespace",
			line: "  markDocAvail   Alice 09:00-10:00,  10:00-11:00 ",
			want: Command{Name: MarkAvailability, Args: []string{"Alice", "09:00-10:00,", "10:00-11:00"}},
		},
		{
			name: "exit",
			line: "exit",
			want: Command{Name: Exit, Args: []string{}},
		},
		{name: "empty", line: "   ", wantErr: "empty command"},
		{name: "unknown", line: "deleteDoc Alice", wantErr: "invalid command"},
		{name: "case sensitive", line: "RegisterDoc Alice Cardiology", wantErr: "invalid command"},
		{name: "missing args", line: "bookAppointment Bob Alice", wantErr: "bookAppointment: missing arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func run(t *testing.T, d *Dispatcher, line string) (*Result, error) {
	t.Helper()
	cmd, err := Parse(line)
	require.NoError(t, err)
	return d.Execute(context.Background(), cmd)
}

func TestDispatcher_Session(t *testing.T) {
	d := NewDispatcher(booking.NewService(nil, nil, nil), nil)

	res, err := run(t, d, "registerDoc Alice Cardiology")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Doctor.Name)
	assert.Equal(t, model.DefaultRating, res.Doctor.Rating)

	res, err = run(t, d, "registerDoc Carol Cardiology 5")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Doctor.Rating)

	res, err = run(t, d, "markDocAvail Alice 09:00-10:00, 10:00-11:30")
	require.NoError(t, err)
	assert.Len(t, res.Report.Accepted, 1)
	assert.Len(t, res.Report.Rejected, 1)

	_, err = run(t, d, "markDocAvail Carol 12:00-13:00")
	require.NoError(t, err)

	res, err = run(t, d, "showAvailByspeciality Cardiology rating")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", res.Specialty)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Carol", res.Rows[0].Doctor)

	_, err = run(t, d, "registerPatient Bob")
	require.NoError(t, err)

	res, err = run(t, d, "bookAppointment Bob Alice 09:00-10:00")
	require.NoError(t, err)
	assert.Equal(t, 1001, res.Booking.ID)

	res, err = run(t, d, "bookAppointment Bob Alice 09:00-10:00 true")
	require.NoError(t, err)
	assert.True(t, res.Booking.Waitlisted)

	res, err = run(t, d, "showAppointmentsBooked Bob")
	require.NoError(t, err)
	assert.Len(t, res.Bookings, 2)

	res, err = run(t, d, "cancelBookingId 1001")
	require.NoError(t, err)
	assert.Equal(t, 1001, res.Booking.ID)

	res, err = run(t, d, "exit")
	require.NoError(t, err)
	assert.True(t, res.Exit)
}

func TestDispatcher_Errors(t *testing.T) {
	d := NewDispatcher(booking.NewService(nil, nil, nil), nil)
	_, err := run(t, d, "registerDoc Alice Cardiology")
	require.NoError(t, err)
	_, err = run(t, d, "registerPatient Carol")
	require.NoError(t, err)

	tests := []struct {
		line  string
		check func(error) bool
	}{
		{"bookAppointment Carol Alice 9am", apperrors.IsConflict},
		{"registerDoc Bob Cardiology five", func(err error) bool { return apperrors.CodeOf(err) == apperrors.ErrBadRequest }},
		{"cancelBookingId abc", func(err error) bool { return apperrors.CodeOf(err) == apperrors.ErrBadRequest }},
		{"bookAppointment Bob Alice 09:00-10:00 maybe", func(err error) bool { return apperrors.CodeOf(err) == apperrors.ErrBadRequest }},
		{"cancelBookingId 1001", apperrors.IsNotFound},
		{"showAppointmentsBooked Nobody", apperrors.IsNotFound},
		{"markDocAvail Nobody 09:00-10:00", apperrors.IsNotFound},
		{"bookAppointment Bob Alice 09:00-10:00", apperrors.IsNotFound},
		{"showAvailByspeciality Cardiology alphabetical", apperrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := run(t, d, tt.line)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestDispatcher_UnparsedCommand(t *testing.T) {
	d := NewDispatcher(booking.NewService(nil, nil, nil), nil)

	_, err := d.Execute(context.Background(), Command{Name: "unknown"})
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))

	_, err = d.Execute(context.Background(), Command{Name: CancelBooking})
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}
