package model

import "time"

// DefaultRating is assigned to doctors registered without a rating.
const DefaultRating = 4

type Doctor struct {
	Name         string    `json:"name"`
	Specialty    string    `json:"specialty"`
	Rating       int       `json:"rating"`
	Availability []Slot    `json:"availability"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewDoctor(name, specialty string, rating int) *Doctor {
	if rating <= 0 {
		rating = DefaultRating
	}
	return &Doctor{
		Name:         name,
		Specialty:    specialty,
		Rating:       rating,
		Availability: []Slot{},
		CreatedAt:    time.Now(),
	}
}

func (d *Doctor) DeclareAvailability(slots ...Slot) {
	d.Availability = append(d.Availability, slots...)
}

func (d *Doctor) IsAvailable(slot Slot) bool {
	for _, s := range d.Availability {
		if s == slot {
			return true
		}
	}
	return false
}

// TakeSlot removes the first occurrence of slot from the open slots.
func (d *Doctor) TakeSlot(slot Slot) bool {
	for i, s := range d.Availability {
		if s == slot {
			d.Availability = append(d.Availability[:i:i], d.Availability[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Doctor) ReleaseSlot(slot Slot) {
	d.Availability = append(d.Availability, slot)
}

// Clone returns a copy that shares no slices with d.
func (d *Doctor) Clone() *Doctor {
	c := *d
	c.Availability = append([]Slot{}, d.Availability...)
	return &c
}

type DoctorRating struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

type RegisterDoctorRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
	Rating    int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

type DeclareAvailabilityRequest struct {
	Slots []string `json:"slots" binding:"required,min=1"`
}

type SlotRejection struct {
	Slot   string `json:"slot"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// AvailabilityReport describes the outcome of one availability declaration.
type AvailabilityReport struct {
	Doctor   string          `json:"doctor"`
	Accepted []Slot          `json:"accepted"`
	Rejected []SlotRejection `json:"rejected"`
}

type AvailabilityRow struct {
	Doctor string `json:"doctor"`
	Slot   Slot   `json:"slot"`
}

type RankingStrategy string

const (
	RankByStartTime RankingStrategy = "start_time"
	RankByRating    RankingStrategy = "rating"
)
