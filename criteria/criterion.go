// Package criteria provides the scaling criteria, combinators, and policy
// that drive a pool's capacity decisions, plus a tagged-map codec so any
// policy tree can be persisted and reloaded.
//
// A criterion is a pure decision function: given a snapshot of the current
// context (instant, resource readings) it returns the worker count it wants.
// Every variant falls back to 1 when its condition does not hold, and a
// criterion is considered "active" when it decides above 1. Criteria are
// immutable after construction and safe to share without locking.
package criteria

import (
	"github.com/adaptric/go-adaptive-pool/core"
)

// minWorkers is the universal fallback decision.
const minWorkers = 1

// Criterion maps a context snapshot to a desired worker count.
//
// Workers never returns less than 1 and never fails: all parameter
// validation happens at construction time.
type Criterion interface {
	// Workers returns the desired worker count for the snapshot.
	Workers(s core.Snapshot) int

	// Kind returns the serialization discriminator for this variant.
	Kind() string

	// ToMap returns the tagged mapping representation: a "type" key holding
	// Kind() plus the variant's parameters. Nested criteria embed their own
	// mappings.
	ToMap() map[string]any
}

// isActive reports whether the criterion decides above its fallback for the
// snapshot. Combinators use this to test a child's condition without caring
// about its magnitude.
func isActive(c Criterion, s core.Snapshot) bool {
	return c.Workers(s) > minWorkers
}
