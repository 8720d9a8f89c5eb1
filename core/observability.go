package core

import "time"

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	PoolID     string
	WorkerID   int
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// PoolStats represents runtime observability state for a pool. Enough for an
// external layer to report the active worker count and the last policy
// decision without reaching into pool internals.
type PoolStats struct {
	ID          string
	MaxWorkers  int
	WorkerLimit int // current permit limit set by the control loop
	LastTarget  int // last policy decision before clamping to MaxWorkers
	InFlight    int // submitted but not yet finished
	Queued      int // waiting in the intake queue
	Active      int // currently holding a permit
	Delayed     int // scheduled via SubmitAfter, not yet due
	Completed   int64
	Panicked    int64
	Rejected    int64
	State       string
}
