package core

import (
	"context"
	"time"
)

// Task is the unit of work (Closure). The pool treats it as an opaque
// payload: it has no identity beyond submission order, and the context it
// receives is the pool's run context, cancelled only after shutdown drains.
type Task func(ctx context.Context)

// Snapshot carries the inputs a scaling decision may consult. It is built
// once per control-loop cycle from the Clock and ResourceProbe collaborators,
// so every criterion in a policy sees the same instant and the same readings.
type Snapshot struct {
	// Now is the current instant from the pool's Clock. Criteria localize it
	// to their own timezone.
	Now time.Time

	// CPUPercent and MemoryPercent are utilization percentages in [0, 100].
	// A failed probe read degrades to 0, which leaves threshold criteria at
	// their inactive decision.
	CPUPercent    float64
	MemoryPercent float64
}

// Policy computes the desired worker count for a snapshot. Implementations
// must be safe for concurrent use: the control loop reads the policy while
// SetPolicy may swap it from another goroutine.
type Policy interface {
	TargetWorkers(s Snapshot) int
}
