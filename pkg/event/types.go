package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	DoctorRegistered     EventType = "DOCTOR_REGISTERED"
	AvailabilityDeclared EventType = "AVAILABILITY_DECLARED"
	PatientRegistered    EventType = "PATIENT_REGISTERED"
	BookingCreated       EventType = "BOOKING_CREATED"
	BookingCancelled     EventType = "BOOKING_CANCELLED"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

type OutboxEvent struct {
	ID           uuid.UUID       `json:"id"`
	EventType    EventType       `json:"event_type"`
	Payload      json.RawMessage `json:"payload"`
	Status       OutboxStatus    `json:"status"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	RetryCount   int             `json:"retry_count"`
	CreatedAt    time.Time       `json:"created_at"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
}

// Emitter records domain events. Implementations must not block.
type Emitter interface {
	Emit(ctx context.Context, eventType EventType, payload interface{}) error
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, EventType, interface{}) error { return nil }

// Nop returns an Emitter that discards every event.
func Nop() Emitter { return nopEmitter{} }
