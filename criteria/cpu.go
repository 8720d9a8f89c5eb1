package criteria

import (
	"fmt"

	"github.com/adaptric/go-adaptive-pool/core"
)

// CPUCriterion scales workers when sampled CPU usage reaches a threshold.
// The comparison is inclusive: usage exactly at the threshold is elevated.
type CPUCriterion struct {
	threshold float64
	workers   int
}

// NewCPUCriterion builds a CPU-threshold criterion. threshold is a
// percentage in [0, 100].
func NewCPUCriterion(threshold float64, workers int) (*CPUCriterion, error) {
	if err := validateThreshold(threshold, workers); err != nil {
		return nil, err
	}
	return &CPUCriterion{threshold: threshold, workers: workers}, nil
}

// Workers returns the configured count when CPU usage >= threshold, else 1.
func (c *CPUCriterion) Workers(s core.Snapshot) int {
	if s.CPUPercent >= c.threshold {
		return c.workers
	}
	return minWorkers
}

func (c *CPUCriterion) Kind() string { return KindCPU }

func (c *CPUCriterion) ToMap() map[string]any {
	return map[string]any{
		"type":      KindCPU,
		"threshold": c.threshold,
		"workers":   c.workers,
	}
}

func validateThreshold(threshold float64, workers int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: threshold must be between 0 and 100, got %v", core.ErrInvalidConfig, threshold)
	}
	if workers < minWorkers {
		return fmt.Errorf("%w: workers must be at least 1, got %d", core.ErrInvalidConfig, workers)
	}
	return nil
}
