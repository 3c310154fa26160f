package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/appointment-booking/internal/model"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
	"github.com/jwalitptl/appointment-booking/pkg/event"
	"github.com/jwalitptl/appointment-booking/pkg/logger"
	"github.com/jwalitptl/appointment-booking/pkg/metrics"
	"github.com/jwalitptl/appointment-booking/pkg/validator"
)

// Service is the booking registry. It owns every doctor, patient and booking
// and serializes all operations behind one mutex, so the check-then-mutate
// sequence in Book is atomic.
type Service struct {
	mu       sync.Mutex
	doctors  []*model.Doctor
	patients []*model.Patient
	bookings map[int]*model.Booking
	nextID   int

	events  event.Emitter
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

// NewService creates an empty registry. Any dependency may be nil.
func NewService(events event.Emitter, m *metrics.Metrics, log *logger.Logger) *Service {
	if events == nil {
		events = event.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		bookings: make(map[int]*model.Booking),
		nextID:   model.FirstBookingID,
		events:   events,
		metrics:  m,
		logger:   log.Component("registry"),
		now:      time.Now,
	}
}

func (s *Service) RegisterDoctor(ctx context.Context, name, specialty string, rating int) (*model.Doctor, error) {
	name, specialty = strings.TrimSpace(name), strings.TrimSpace(specialty)
	if name == "" {
		return nil, apperrors.Validation("doctor name is required", nil)
	}
	if specialty == "" {
		return nil, apperrors.Validation("specialty is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doctor := model.NewDoctor(name, specialty, rating)
	doctor.CreatedAt = s.now()
	s.doctors = append(s.doctors, doctor)

	s.logger.Info("doctor registered", "doctor", name, "specialty", specialty, "rating", doctor.Rating)
	s.emit(ctx, event.DoctorRegistered, map[string]interface{}{
		"name":      doctor.Name,
		"specialty": doctor.Specialty,
		"rating":    doctor.Rating,
	})

	return doctor.Clone(), nil
}

// DeclareAvailability validates each raw slot on its own. Valid slots are
// appended to the doctor's open slots in order; invalid ones are reported and
// skipped without affecting the rest of the batch.
func (s *Service) DeclareAvailability(ctx context.Context, doctorName string, rawSlots []string) (*model.AvailabilityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor := s.findDoctor(doctorName)
	if doctor == nil {
		return nil, apperrors.NotFound("doctor", ErrDoctorNotFound)
	}

	report := &model.AvailabilityReport{
		Doctor:   doctor.Name,
		Accepted: []model.Slot{},
		Rejected: []model.SlotRejection{},
	}

	for _, raw := range rawSlots {
		slot, err := validator.ParseSlot(raw)
		if err != nil {
			reason := "format"
			if validator.IsDurationError(err) {
				reason = "duration"
			}
			if s.metrics != nil {
				s.metrics.SlotsRejected.WithLabelValues(reason).Inc()
			}
			s.logger.Debug("slot rejected", "doctor", doctor.Name, "slot", raw, "reason", reason)
			report.Rejected = append(report.Rejected, model.SlotRejection{
				Slot:   raw,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}
		doctor.DeclareAvailability(slot)
		report.Accepted = append(report.Accepted, slot)
	}

	if len(report.Accepted) > 0 {
		s.refreshGauges()
		s.emit(ctx, event.AvailabilityDeclared, report)
	}

	return report, nil
}

// RankBySpecialty orders the doctors of a specialty by rating, highest first.
// Doctors with equal ratings keep their registration order.
func (s *Service) RankBySpecialty(ctx context.Context, specialty string) []model.DoctorRating {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := s.rankedDoctors(specialty)
	out := make([]model.DoctorRating, 0, len(ranked))
	for _, d := range ranked {
		out = append(out, model.DoctorRating{Name: d.Name, Rating: d.Rating})
	}
	return out
}

func (s *Service) ListAvailability(ctx context.Context, specialty string, strategy model.RankingStrategy) ([]model.AvailabilityRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doctors []*model.Doctor
	switch strategy {
	case "", model.RankByStartTime:
		for _, d := range s.doctors {
			if d.Specialty == specialty {
				doctors = append(doctors, d)
			}
		}
	case model.RankByRating:
		doctors = s.rankedDoctors(specialty)
	default:
		return nil, apperrors.Validation(fmt.Sprintf("unknown ranking strategy %q", strategy), nil)
	}

	rows := []model.AvailabilityRow{}
	for _, d := range doctors {
		for _, slot := range d.Availability {
			rows = append(rows, model.AvailabilityRow{Doctor: d.Name, Slot: slot})
		}
	}
	return rows, nil
}

func (s *Service) RegisterPatient(ctx context.Context, name string) (*model.Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("patient name is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patient := model.NewPatient(name)
	patient.CreatedAt = s.now()
	s.patients = append(s.patients, patient)

	s.logger.Info("patient registered", "patient", name)
	s.emit(ctx, event.PatientRegistered, map[string]interface{}{"name": name})

	return patient.Clone(), nil
}

func (s *Service) ListBookings(ctx context.Context, patientName string) ([]model.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := s.findPatient(patientName)
	if patient == nil {
		return nil, apperrors.NotFound("patient", ErrPatientNotFound)
	}

	views := []model.BookingView{}
	for _, id := range patient.BookingIDs() {
		b, ok := s.bookings[id]
		if !ok {
			continue
		}
		views = append(views, model.BookingView{ID: b.ID, Doctor: b.DoctorName, Slot: b.Slot})
	}
	return views, nil
}

// Book reserves slot with a doctor for a patient. A slot already held by an
// active booking can only be booked again with waitlist set; the new booking
// is then marked as waitlisted. Nothing changes when Book fails.
func (s *Service) Book(ctx context.Context, patientName, doctorName, rawSlot string, waitlist bool) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := s.findPatient(patientName)
	if patient == nil {
		return nil, apperrors.NotFound("patient", ErrPatientNotFound)
	}
	doctor := s.findDoctor(doctorName)
	if doctor == nil {
		return nil, apperrors.NotFound("doctor", ErrDoctorNotFound)
	}

	// a slot that does not parse can never be among the open slots
	slot, err := validator.ParseSlot(rawSlot)
	if err != nil {
		s.countConflict("unavailable")
		return nil, apperrors.Conflict(fmt.Sprintf("slot %q not available for booking with Dr. %s", rawSlot, doctor.Name), fmt.Errorf("%w: %w", ErrSlotUnavailable, err))
	}

	held := s.holder(doctor.Name, slot, nil) != nil
	if held && !waitlist {
		s.countConflict("already_booked")
		return nil, apperrors.Conflict(fmt.Sprintf("slot %s already booked with Dr. %s", slot, doctor.Name), ErrSlotAlreadyBooked)
	}
	if !held && !doctor.IsAvailable(slot) {
		s.countConflict("unavailable")
		return nil, apperrors.Conflict(fmt.Sprintf("slot %s not available for booking with Dr. %s", slot, doctor.Name), ErrSlotUnavailable)
	}

	s.nextID++
	b := &model.Booking{
		ID:          s.nextID,
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		Slot:        slot,
		Waitlisted:  held,
		CreatedAt:   s.now(),
	}
	s.bookings[b.ID] = b
	patient.AddBooking(b.ID, slot, doctor.Name)
	b.HoldsOpenSlot = doctor.TakeSlot(slot)

	if s.metrics != nil {
		s.metrics.BookingsCreated.WithLabelValues(fmt.Sprintf("%t", b.Waitlisted)).Inc()
	}
	s.refreshGauges()
	s.logger.Info("booking created", "booking_id", b.ID, "patient", b.PatientName, "doctor", b.DoctorName, "slot", slot.String(), "waitlisted", b.Waitlisted)
	s.emit(ctx, event.BookingCreated, *b)

	out := *b
	return &out, nil
}

// Cancel removes a booking. The earliest remaining waitlisted booking for the
// same doctor and slot is promoted. A declared copy the cancelled booking
// consumed passes to a remaining booking that holds none, otherwise it is
// reopened.
func (s *Service) Cancel(ctx context.Context, bookingID int) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, apperrors.NotFound("booking", ErrBookingNotFound)
	}

	delete(s.bookings, bookingID)
	for _, p := range s.patients {
		if p.RemoveBooking(bookingID) {
			break
		}
	}

	payload := map[string]interface{}{
		"id":      b.ID,
		"patient": b.PatientName,
		"doctor":  b.DoctorName,
		"slot":    b.Slot,
	}

	if next := s.holder(b.DoctorName, b.Slot, nil); next != nil && next.Waitlisted {
		next.Waitlisted = false
		payload["promoted_booking_id"] = next.ID
		s.logger.Info("waitlisted booking promoted", "booking_id", next.ID, "slot", b.Slot.String())
	}
	if b.HoldsOpenSlot {
		withoutCopy := func(o *model.Booking) bool { return !o.HoldsOpenSlot }
		if heir := s.holder(b.DoctorName, b.Slot, withoutCopy); heir != nil {
			heir.HoldsOpenSlot = true
		} else if doctor := s.findDoctor(b.DoctorName); doctor != nil {
			doctor.ReleaseSlot(b.Slot)
		}
	}

	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.refreshGauges()
	s.logger.Info("booking cancelled", "booking_id", b.ID, "doctor", b.DoctorName, "slot", b.Slot.String())
	s.emit(ctx, event.BookingCancelled, payload)

	out := *b
	return &out, nil
}

func (s *Service) Booking(ctx context.Context, bookingID int) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, apperrors.NotFound("booking", ErrBookingNotFound)
	}
	out := *b
	return &out, nil
}

func (s *Service) Doctor(ctx context.Context, name string) (*model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.findDoctor(name)
	if d == nil {
		return nil, apperrors.NotFound("doctor", ErrDoctorNotFound)
	}
	return d.Clone(), nil
}

func (s *Service) Patient(ctx context.Context, name string) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPatient(name)
	if p == nil {
		return nil, apperrors.NotFound("patient", ErrPatientNotFound)
	}
	return p.Clone(), nil
}

// Doctors returns every registered doctor in registration order.
func (s *Service) Doctors(ctx context.Context) []*model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d.Clone())
	}
	return out
}

func (s *Service) Stats(ctx context.Context) model.RegistryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.RegistryStats{
		Doctors:        len(s.doctors),
		Patients:       len(s.patients),
		ActiveBookings: len(s.bookings),
		OpenSlots:      s.openSlotCount(),
		LastBookingID:  s.nextID,
	}
}

// Duplicate names resolve to the first registration.
func (s *Service) findDoctor(name string) *model.Doctor {
	for _, d := range s.doctors {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (s *Service) findPatient(name string) *model.Patient {
	for _, p := range s.patients {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// holder returns the earliest active booking of (doctorName, slot) that
// satisfies match. A nil match accepts any booking.
func (s *Service) holder(doctorName string, slot model.Slot, match func(*model.Booking) bool) *model.Booking {
	var found *model.Booking
	for _, b := range s.bookings {
		if b.DoctorName != doctorName || b.Slot != slot {
			continue
		}
		if match != nil && !match(b) {
			continue
		}
		if found == nil || b.ID < found.ID {
			found = b
		}
	}
	return found
}

func (s *Service) rankedDoctors(specialty string) []*model.Doctor {
	var ranked []*model.Doctor
	for _, d := range s.doctors {
		if d.Specialty == specialty {
			ranked = append(ranked, d)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})
	return ranked
}

func (s *Service) openSlotCount() int {
	n := 0
	for _, d := range s.doctors {
		n += len(d.Availability)
	}
	return n
}

func (s *Service) refreshGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.OpenSlots.Set(float64(s.openSlotCount()))
	s.metrics.ActiveBookings.Set(float64(len(s.bookings)))
}

func (s *Service) countConflict(reason string) {
	if s.metrics != nil {
		s.metrics.BookingConflicts.WithLabelValues(reason).Inc()
	}
}

// emit never fails the calling operation; the state change has already happened.
func (s *Service) emit(ctx context.Context, eventType event.EventType, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Warn("failed to emit event", "event_type", string(eventType), "error", err.Error())
	}
}
