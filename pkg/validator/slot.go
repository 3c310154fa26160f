package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jwalitptl/appointment-booking/internal/model"
	apperrors "github.com/jwalitptl/appointment-booking/pkg/errors"
)

var (
	ErrSlotFormat   = errors.New("slots must be in format 'hh:mm-hh:mm'")
	ErrSlotDuration = errors.New("slots must be exactly 60 minutes long")
)

var slotPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})-(\d{1,2}):(\d{1,2})$`)

// ParseSlot validates a "HH:MM-HH:MM" range and returns it as a Slot.
// A trailing comma left over from a command list is ignored.
func ParseSlot(raw string) (model.Slot, error) {
	text := strings.TrimRight(strings.TrimSpace(raw), ",")

	m := slotPattern.FindStringSubmatch(text)
	if m == nil {
		return model.Slot{}, formatError(text)
	}

	start, ok := minuteOfDay(m[1], m[2], false)
	if !ok {
		return model.Slot{}, formatError(text)
	}
	end, ok := minuteOfDay(m[3], m[4], true)
	if !ok {
		return model.Slot{}, formatError(text)
	}

	if end-start != model.SlotMinutes {
		return model.Slot{}, apperrors.Validation(fmt.Sprintf("invalid slot duration %q", text), ErrSlotDuration)
	}

	return model.NewSlot(start, end), nil
}

// IsFormatError reports whether err came from a malformed slot.
func IsFormatError(err error) bool { return errors.Is(err, ErrSlotFormat) }

// IsDurationError reports whether err came from a slot that is not 60 minutes long.
func IsDurationError(err error) bool { return errors.Is(err, ErrSlotDuration) }

func formatError(text string) error {
	return apperrors.Validation(fmt.Sprintf("invalid slot format %q", text), ErrSlotFormat)
}

// 24:00 is only valid as the end of a slot.
func minuteOfDay(hh, mm string, isEnd bool) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}
	minutes := h*60 + m
	if minutes > 24*60 || (minutes == 24*60 && !isEnd) {
		return 0, false
	}
	return minutes, true
}
