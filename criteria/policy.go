package criteria

import (
	"encoding/json"
	"fmt"

	"github.com/adaptric/go-adaptive-pool/core"
)

// MultiCriterionPolicy aggregates an ordered list of criteria plus a hard
// cap into one worker-count decision.
//
// Aggregation takes the maximum of all criterion decisions, clamped to
// [1, hardCap]: at the policy layer each independent signal can unilaterally
// justify scaling up, and the hard cap bounds worst-case consumption no
// matter how many criteria agree. This differs deliberately from
// MultiCriterion's first-wins combinator semantics, which apply only inside
// an explicit AND/OR composition.
type MultiCriterionPolicy struct {
	criteria []Criterion
	hardCap  int
}

var _ core.Policy = (*MultiCriterionPolicy)(nil)

// NewMultiCriterionPolicy validates and builds a policy.
func NewMultiCriterionPolicy(criteria []Criterion, hardCap int) (*MultiCriterionPolicy, error) {
	if hardCap < minWorkers {
		return nil, fmt.Errorf("%w: hard_cap must be at least 1, got %d", core.ErrInvalidConfig, hardCap)
	}
	if len(criteria) == 0 {
		return nil, fmt.Errorf("%w: criteria cannot be empty", core.ErrInvalidConfig)
	}
	for i, c := range criteria {
		if c == nil {
			return nil, fmt.Errorf("%w: criterion %d is nil", core.ErrInvalidConfig, i)
		}
	}
	copied := make([]Criterion, len(criteria))
	copy(copied, criteria)
	return &MultiCriterionPolicy{criteria: copied, hardCap: hardCap}, nil
}

// TargetWorkers returns max over all criterion decisions, clamped to
// [1, hardCap].
func (p *MultiCriterionPolicy) TargetWorkers(s core.Snapshot) int {
	best := minWorkers
	for _, c := range p.criteria {
		if w := c.Workers(s); w > best {
			best = w
		}
	}
	if best > p.hardCap {
		return p.hardCap
	}
	return best
}

// HardCap returns the policy's absolute worker-count ceiling.
func (p *MultiCriterionPolicy) HardCap() int { return p.hardCap }

// Criteria returns a copy of the ordered criterion list.
func (p *MultiCriterionPolicy) Criteria() []Criterion {
	out := make([]Criterion, len(p.criteria))
	copy(out, p.criteria)
	return out
}

// ToMap returns the policy's tagged mapping representation.
func (p *MultiCriterionPolicy) ToMap() map[string]any {
	maps := make([]any, 0, len(p.criteria))
	for _, c := range p.criteria {
		maps = append(maps, c.ToMap())
	}
	return map[string]any{
		"type":     KindPolicy,
		"criteria": maps,
		"hard_cap": p.hardCap,
	}
}

// ToJSON encodes the policy's tagged mapping as JSON.
func (p *MultiCriterionPolicy) ToJSON() ([]byte, error) {
	data, err := json.Marshal(p.ToMap())
	if err != nil {
		return nil, fmt.Errorf("json marshal failed: %w", err)
	}
	return data, nil
}
