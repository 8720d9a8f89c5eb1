package core

import "errors"

// Sentinel errors returned by the pool and its collaborators. Callers match
// them with errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidConfig reports a constructor or setter argument that failed
	// validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPoolClosed reports a submission to a pool that is draining or
	// stopped.
	ErrPoolClosed = errors.New("pool closed")

	// ErrGateClosed reports a permit acquisition after the gate shut down.
	ErrGateClosed = errors.New("scaling gate closed")

	// ErrProbeUnavailable marks probe readings that could not be taken.
	// Probe implementations wrap it so the control loop can degrade the
	// sample instead of surfacing the failure.
	ErrProbeUnavailable = errors.New("resource probe unavailable")
)
