package adaptivepool

import "github.com/adaptric/go-adaptive-pool/core"

// Re-export commonly used types from the core package for convenience.
// This allows users to import only the adaptivepool package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// Pool is the adaptive worker pool
type Pool = core.Pool

// Config holds pool construction parameters
type Config = core.Config

// State is the pool lifecycle state
type State = core.State

// PoolStats is the pool's observability snapshot
type PoolStats = core.PoolStats

// Snapshot carries the inputs a scaling decision may consult
type Snapshot = core.Snapshot

// Policy computes the desired worker count for a snapshot
type Policy = core.Policy

// Clock supplies the current instant to the control loop
type Clock = core.Clock

// ResourceProbe supplies CPU and memory utilization percentages
type ResourceProbe = core.ResourceProbe

// Logger is the structured logging interface
type Logger = core.Logger

// Field is a key-value pair for structured logging
type Field = core.Field

// Lifecycle states
const (
	StateRunning  = core.StateRunning
	StateDraining = core.StateDraining
	StateStopped  = core.StateStopped
)

// Sentinel errors
var (
	ErrInvalidConfig    = core.ErrInvalidConfig
	ErrPoolClosed       = core.ErrPoolClosed
	ErrProbeUnavailable = core.ErrProbeUnavailable
)

// F creates a new logging Field
var F = core.F

// New creates and starts an adaptive pool. See core.NewPool.
func New(cfg Config, policy Policy) (*Pool, error) {
	return core.NewPool(cfg, policy)
}
