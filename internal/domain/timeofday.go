package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a zero-second wall-clock time with no date and no timezone.
// It replaces raw "HH:MM" string comparison so that unpadded values like
// "9:5" can never be compared lexicographically against "09:05".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if len(s) != 5 || s[2] != ':' {
		return tod, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &tod.Hour, &tod.Minute); err != nil {
		return tod, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return tod, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// TimeOfDayFromClock extracts the wall-clock portion of t.
func TimeOfDayFromClock(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Compare returns -1, 0 or 1 ordering t against other within a single day.
func (t TimeOfDay) Compare(other TimeOfDay) int {
	switch a, b := t.Minutes(), other.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Compare(other) < 0
}

// String renders the canonical zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes the time as its "HH:MM" string form.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
