package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeOfDay is returned for malformed HH:MM values.
var ErrInvalidTimeOfDay = errors.New("schedule: time of day must be HH:MM")

// Daily is a fixed wall-clock time in a location.
type Daily struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// ParseDaily parses "HH:MM". A nil loc means time.Local.
func ParseDaily(value string, loc *time.Location) (Daily, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return Daily{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Daily{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return Daily{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	if loc == nil {
		loc = time.Local
	}
	return Daily{Hour: hour, Minute: minute, Location: loc}, nil
}

func (d Daily) location() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

// SlotOn returns the fire instant on the calendar day of t, in d's location.
func (d Daily) SlotOn(t time.Time) time.Time {
	local := t.In(d.location())
	return time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, d.location())
}

// NextAfter returns the first slot strictly after t.
func (d Daily) NextAfter(t time.Time) time.Time {
	slot := d.SlotOn(t)
	if slot.After(t) {
		return slot
	}
	return time.Date(slot.Year(), slot.Month(), slot.Day()+1, d.Hour, d.Minute, 0, 0, d.location())
}

// Cron renders the slot as a five-field cron expression.
func (d Daily) Cron() string {
	return fmt.Sprintf("%d %d * * *", d.Minute, d.Hour)
}

func (d Daily) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}
