package criteria

import (
	"fmt"

	"github.com/adaptric/go-adaptive-pool/core"
)

// ConditionalCriterion applies a fixed worker count while a condition
// criterion is active; otherwise it delegates to the action criterion's full
// decision. This is the one combinator whose "otherwise" branch is another
// criterion's own answer rather than the fallback of 1.
type ConditionalCriterion struct {
	condition Criterion
	action    Criterion
	workers   int
}

// NewConditionalCriterion validates and builds a conditional combinator.
func NewConditionalCriterion(condition, action Criterion, workers int) (*ConditionalCriterion, error) {
	if condition == nil {
		return nil, fmt.Errorf("%w: condition criterion is nil", core.ErrInvalidConfig)
	}
	if action == nil {
		return nil, fmt.Errorf("%w: action criterion is nil", core.ErrInvalidConfig)
	}
	if workers < minWorkers {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", core.ErrInvalidConfig, workers)
	}
	return &ConditionalCriterion{condition: condition, action: action, workers: workers}, nil
}

// Workers returns the configured count while the condition is active, else
// the action criterion's decision.
func (c *ConditionalCriterion) Workers(s core.Snapshot) int {
	if isActive(c.condition, s) {
		return c.workers
	}
	return c.action.Workers(s)
}

func (c *ConditionalCriterion) Kind() string { return KindConditional }

func (c *ConditionalCriterion) ToMap() map[string]any {
	return map[string]any{
		"type":                KindConditional,
		"condition_criterion": c.condition.ToMap(),
		"action_criterion":    c.action.ToMap(),
		"workers":             c.workers,
	}
}
