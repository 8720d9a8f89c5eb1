package criteria

import (
	"fmt"
	"time"

	"github.com/adaptric/go-adaptive-pool/core"
)

// TimeCriterion scales workers during a daily recurring window. The window
// is start-inclusive, end-exclusive, and wraps past midnight when
// activeEnd <= activeStart (22:00-03:00 spans two calendar days).
type TimeCriterion struct {
	workerCount int
	activeStart TimeOfDay
	activeEnd   TimeOfDay
	loc         *time.Location
}

// NewTimeCriterion builds a daily-window criterion. timezone is an IANA zone
// name; empty means UTC.
func NewTimeCriterion(workerCount int, activeStart, activeEnd TimeOfDay, timezone string) (*TimeCriterion, error) {
	if workerCount < minWorkers {
		return nil, fmt.Errorf("%w: worker_count must be at least 1, got %d", core.ErrInvalidConfig, workerCount)
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &TimeCriterion{
		workerCount: workerCount,
		activeStart: activeStart,
		activeEnd:   activeEnd,
		loc:         loc,
	}, nil
}

// Workers returns the configured count while the local time of day is inside
// the window, else 1.
func (c *TimeCriterion) Workers(s core.Snapshot) int {
	local := s.Now.In(c.loc)
	cur := local.Hour()*3600 + local.Minute()*60 + local.Second()
	start := c.activeStart.SecondOfDay()
	end := c.activeEnd.SecondOfDay()

	var active bool
	if start < end {
		active = cur >= start && cur < end
	} else {
		// Wrapping window, e.g. 22:00-03:00.
		active = cur >= start || cur < end
	}

	if active {
		return c.workerCount
	}
	return minWorkers
}

func (c *TimeCriterion) Kind() string { return KindTime }

func (c *TimeCriterion) ToMap() map[string]any {
	return map[string]any{
		"type":         KindTime,
		"worker_count": c.workerCount,
		"active_start": c.activeStart.String(),
		"active_end":   c.activeEnd.String(),
		"timezone":     c.loc.String(),
	}
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q: %v", core.ErrInvalidConfig, timezone, err)
	}
	return loc, nil
}
