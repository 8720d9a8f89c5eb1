package criteria

import (
	"fmt"
	"time"

	"github.com/adaptric/go-adaptive-pool/core"
)

// TimeOfDay is a clock time not bound to any date, used for daily recurring
// windows. The zero value is midnight.
type TimeOfDay struct {
	hour, minute, second int
}

// NewTimeOfDay validates and builds a time of day.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hour must be in [0, 23], got %d", core.ErrInvalidConfig, hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute must be in [0, 59], got %d", core.ErrInvalidConfig, minute)
	}
	if second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: second must be in [0, 59], got %d", core.ErrInvalidConfig, second)
	}
	return TimeOfDay{hour: hour, minute: minute, second: second}, nil
}

// MustTimeOfDay is NewTimeOfDay that panics on invalid input. For literals
// in tests and wiring code.
func MustTimeOfDay(hour, minute, second int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var layout string
	switch len(s) {
	case len("15:04"):
		layout = "15:04"
	case len("15:04:05"):
		layout = "15:04:05"
	default:
		return TimeOfDay{}, fmt.Errorf("%w: invalid time of day %q", core.ErrInvalidConfig, s)
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: invalid time of day %q: %v", core.ErrInvalidConfig, s, err)
	}
	return TimeOfDay{hour: parsed.Hour(), minute: parsed.Minute(), second: parsed.Second()}, nil
}

// String formats as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
}

// SecondOfDay returns the offset from midnight in seconds.
func (t TimeOfDay) SecondOfDay() int {
	return t.hour*3600 + t.minute*60 + t.second
}
