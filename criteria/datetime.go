package criteria

import (
	"fmt"
	"time"

	"github.com/adaptric/go-adaptive-pool/core"
)

// DateTimeCriterion scales workers during a one-off absolute window, e.g. a
// promotional period. The window is start-inclusive, end-exclusive, with no
// wraparound: if activeEnd precedes activeStart no instant ever matches.
type DateTimeCriterion struct {
	workerCount int
	activeStart time.Time
	activeEnd   time.Time
	loc         *time.Location
}

// NewDateTimeCriterion builds an absolute-window criterion. The bounds are
// converted into the given IANA timezone (empty means UTC); the instants
// they name are unchanged.
func NewDateTimeCriterion(workerCount int, activeStart, activeEnd time.Time, timezone string) (*DateTimeCriterion, error) {
	if workerCount < minWorkers {
		return nil, fmt.Errorf("%w: worker_count must be at least 1, got %d", core.ErrInvalidConfig, workerCount)
	}
	if activeStart.IsZero() || activeEnd.IsZero() {
		return nil, fmt.Errorf("%w: active_start and active_end must be set", core.ErrInvalidConfig)
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &DateTimeCriterion{
		workerCount: workerCount,
		activeStart: activeStart.In(loc),
		activeEnd:   activeEnd.In(loc),
		loc:         loc,
	}, nil
}

// Workers returns the configured count while the current instant is inside
// [activeStart, activeEnd), else 1.
func (c *DateTimeCriterion) Workers(s core.Snapshot) int {
	if !s.Now.Before(c.activeStart) && s.Now.Before(c.activeEnd) {
		return c.workerCount
	}
	return minWorkers
}

func (c *DateTimeCriterion) Kind() string { return KindDateTime }

func (c *DateTimeCriterion) ToMap() map[string]any {
	return map[string]any{
		"type":         KindDateTime,
		"worker_count": c.workerCount,
		"active_start": c.activeStart.Format(time.RFC3339Nano),
		"active_end":   c.activeEnd.Format(time.RFC3339Nano),
		"timezone":     c.loc.String(),
	}
}
