package model

import (
	"encoding/json"
	"fmt"
)

// SlotMinutes is the fixed length of every bookable slot.
const SlotMinutes = 60

// Slot is a time range within a day, stored as minutes since midnight.
// Its textual form is "HH:MM-HH:MM".
type Slot struct {
	start int
	end   int
}

func NewSlot(start, end int) Slot {
	return Slot{start: start, end: end}
}

func (s Slot) Start() int { return s.start }
func (s Slot) End() int   { return s.end }

func (s Slot) IsZero() bool {
	return s.start == 0 && s.end == 0
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.start/60, s.start%60, s.end/60, s.end%60)
}

func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
