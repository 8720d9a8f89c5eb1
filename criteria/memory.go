package criteria

import (
	"github.com/adaptric/go-adaptive-pool/core"
)

// MemoryCriterion scales workers when sampled memory usage reaches a
// threshold. Structurally identical to CPUCriterion; it reads the memory
// side of the snapshot.
type MemoryCriterion struct {
	threshold float64
	workers   int
}

// NewMemoryCriterion builds a memory-threshold criterion. threshold is a
// percentage in [0, 100].
func NewMemoryCriterion(threshold float64, workers int) (*MemoryCriterion, error) {
	if err := validateThreshold(threshold, workers); err != nil {
		return nil, err
	}
	return &MemoryCriterion{threshold: threshold, workers: workers}, nil
}

// Workers returns the configured count when memory usage >= threshold, else 1.
func (c *MemoryCriterion) Workers(s core.Snapshot) int {
	if s.MemoryPercent >= c.threshold {
		return c.workers
	}
	return minWorkers
}

func (c *MemoryCriterion) Kind() string { return KindMemory }

func (c *MemoryCriterion) ToMap() map[string]any {
	return map[string]any{
		"type":      KindMemory,
		"threshold": c.threshold,
		"workers":   c.workers,
	}
}
