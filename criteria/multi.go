package criteria

import (
	"fmt"

	"github.com/adaptric/go-adaptive-pool/core"
)

// Logic selects how a MultiCriterion combines its pairs.
type Logic string

const (
	// LogicAnd requires every pair's criterion to be active.
	LogicAnd Logic = "and"
	// LogicOr requires any pair's criterion to be active.
	LogicOr Logic = "or"
)

// CriterionPair attaches a worker count to a child criterion. The child's
// own decision only determines activity; the pair's Workers value is what a
// combinator reports.
type CriterionPair struct {
	Criterion Criterion
	Workers   int
}

// MultiCriterion combines several criteria with AND/OR logic. Order matters:
// with OR the first active pair in list order wins; with AND, when every
// pair is active, the first pair's worker count is reported regardless of
// the others' magnitudes. The deterministic first-wins tie-break keeps
// composition predictable without a max/priority scheme.
type MultiCriterion struct {
	pairs []CriterionPair
	logic Logic
}

// NewMultiCriterion validates and builds a combinator over pairs.
func NewMultiCriterion(pairs []CriterionPair, logic Logic) (*MultiCriterion, error) {
	if logic != LogicAnd && logic != LogicOr {
		return nil, fmt.Errorf("%w: logic must be %q or %q, got %q", core.ErrInvalidConfig, LogicAnd, LogicOr, logic)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: criteria cannot be empty", core.ErrInvalidConfig)
	}
	for i, p := range pairs {
		if p.Criterion == nil {
			return nil, fmt.Errorf("%w: criterion %d is nil", core.ErrInvalidConfig, i)
		}
		if p.Workers < minWorkers {
			return nil, fmt.Errorf("%w: workers must be at least 1, got %d", core.ErrInvalidConfig, p.Workers)
		}
	}
	copied := make([]CriterionPair, len(pairs))
	copy(copied, pairs)
	return &MultiCriterion{pairs: copied, logic: logic}, nil
}

// Workers evaluates the combinator for the snapshot.
func (c *MultiCriterion) Workers(s core.Snapshot) int {
	switch c.logic {
	case LogicAnd:
		for _, p := range c.pairs {
			if !isActive(p.Criterion, s) {
				return minWorkers
			}
		}
		return c.pairs[0].Workers
	default: // LogicOr
		for _, p := range c.pairs {
			if isActive(p.Criterion, s) {
				return p.Workers
			}
		}
		return minWorkers
	}
}

func (c *MultiCriterion) Kind() string { return KindMulti }

func (c *MultiCriterion) ToMap() map[string]any {
	pairs := make([]any, 0, len(c.pairs))
	for _, p := range c.pairs {
		pairs = append(pairs, map[string]any{
			"criterion": p.Criterion.ToMap(),
			"workers":   p.Workers,
		})
	}
	return map[string]any{
		"type":     KindMulti,
		"criteria": pairs,
		"logic":    string(c.logic),
	}
}
