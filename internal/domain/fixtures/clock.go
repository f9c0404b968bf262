package fixtures

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"

	ShiftLength  = 8 * time.Hour
	SlotLength   = 30 * time.Minute
	slotSep      = " - "
	gridInterval = 30 * time.Minute
)

var ErrInvalidTime = errors.New("invalid time of day")

// ParseClock parses an "HH:MM" time of day into an offset from midnight.
// Hours past 23 are accepted so that shifted times can be read back.
func ParseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) < 2 {
		return 0, fmt.Errorf("%w %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("%w %q: bad hour", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w %q: bad minute", ErrInvalidTime, s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(offset time.Duration) string {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// AddClock adds d to the time of day start using plain wall-clock arithmetic.
// There is no rollover at midnight: "20:00" + 8h is "28:00".
func AddClock(start string, d time.Duration) (string, error) {
	offset, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	return FormatClock(offset + d), nil
}

// ClockGrid returns every half-hour time of day from first to last inclusive.
func ClockGrid(first, last string) []string {
	from, err := ParseClock(first)
	if err != nil {
		return nil
	}
	to, err := ParseClock(last)
	if err != nil {
		return nil
	}
	var grid []string
	for t := from; t <= to; t += gridInterval {
		grid = append(grid, FormatClock(t))
	}
	return grid
}

// FormatTimeSlot renders a slot as "<start> - <end>".
func FormatTimeSlot(start, end string) string {
	return start + slotSep + end
}

// ParseTimeSlot splits a "<start> - <end>" slot.
func ParseTimeSlot(slot string) (start, end string, err error) {
	start, end, ok := strings.Cut(slot, slotSep)
	if !ok {
		return "", "", fmt.Errorf("invalid time slot %q", slot)
	}
	if _, err := ParseClock(start); err != nil {
		return "", "", err
	}
	if _, err := ParseClock(end); err != nil {
		return "", "", err
	}
	return start, end, nil
}

var (
	// AvailabilityStartGrid bounds shift starts so that start+8h stays within the day.
	AvailabilityStartGrid = ClockGrid("08:00", "11:30")
	// AppointmentStartGrid holds the possible appointment start times.
	AppointmentStartGrid = ClockGrid("08:00", "16:30")
)
