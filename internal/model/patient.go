package model

import (
	"sort"
	"time"
)

type PatientBooking struct {
	Slot   Slot   `json:"slot"`
	Doctor string `json:"doctor"`
}

type Patient struct {
	Name      string                 `json:"name"`
	Bookings  map[int]PatientBooking `json:"bookings"`
	CreatedAt time.Time              `json:"created_at"`
}

func NewPatient(name string) *Patient {
	return &Patient{
		Name:      name,
		Bookings:  map[int]PatientBooking{},
		CreatedAt: time.Now(),
	}
}

func (p *Patient) AddBooking(id int, slot Slot, doctor string) {
	if p.Bookings == nil {
		p.Bookings = map[int]PatientBooking{}
	}
	p.Bookings[id] = PatientBooking{Slot: slot, Doctor: doctor}
}

func (p *Patient) RemoveBooking(id int) bool {
	if _, ok := p.Bookings[id]; !ok {
		return false
	}
	delete(p.Bookings, id)
	return true
}

// BookingIDs returns the patient's booking ids in ascending order.
func (p *Patient) BookingIDs() []int {
	ids := make([]int, 0, len(p.Bookings))
	for id := range p.Bookings {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (p *Patient) Clone() *Patient {
	c := *p
	c.Bookings = make(map[int]PatientBooking, len(p.Bookings))
	for id, b := range p.Bookings {
		c.Bookings[id] = b
	}
	return &c
}

type RegisterPatientRequest struct {
	Name string `json:"name" binding:"required"`
}
