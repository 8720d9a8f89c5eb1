package criteria

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/adaptric/go-adaptive-pool/core"
)

// Serialization discriminators. Stable: persisted configurations depend on
// them.
const (
	KindTime        = "TimeCriterion"
	KindDateTime    = "DateTimeCriterion"
	KindCPU         = "CpuCriterion"
	KindMemory      = "MemoryCriterion"
	KindMulti       = "MultiCriterion"
	KindConditional = "ConditionalCriterion"
	KindPolicy      = "MultiCriterionPolicy"
)

// Per-kind payload shapes. Decoding is weakly typed so numbers arriving as
// JSON float64 coerce into int fields.

type windowPayload struct {
	WorkerCount int    `mapstructure:"worker_count"`
	ActiveStart string `mapstructure:"active_start"`
	ActiveEnd   string `mapstructure:"active_end"`
	Timezone    string `mapstructure:"timezone"`
}

type thresholdPayload struct {
	Threshold float64 `mapstructure:"threshold"`
	Workers   int     `mapstructure:"workers"`
}

type multiPayload struct {
	Criteria []struct {
		Criterion map[string]any `mapstructure:"criterion"`
		Workers   int            `mapstructure:"workers"`
	} `mapstructure:"criteria"`
	Logic string `mapstructure:"logic"`
}

type conditionalPayload struct {
	Condition map[string]any `mapstructure:"condition_criterion"`
	Action    map[string]any `mapstructure:"action_criterion"`
	Workers   int            `mapstructure:"workers"`
}

type policyPayload struct {
	Criteria []map[string]any `mapstructure:"criteria"`
	HardCap  int              `mapstructure:"hard_cap"`
}

// FromMap reconstructs a criterion from its tagged mapping. The inverse of
// Criterion.ToMap for every variant, including nested combinators.
func FromMap(m map[string]any) (Criterion, error) {
	kind, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing criterion type tag", core.ErrInvalidConfig)
	}

	switch kind {
	case KindTime:
		var p windowPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		start, err := ParseTimeOfDay(p.ActiveStart)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(p.ActiveEnd)
		if err != nil {
			return nil, err
		}
		return NewTimeCriterion(p.WorkerCount, start, end, p.Timezone)

	case KindDateTime:
		var p windowPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		start, err := parseTimestamp(p.ActiveStart)
		if err != nil {
			return nil, err
		}
		end, err := parseTimestamp(p.ActiveEnd)
		if err != nil {
			return nil, err
		}
		return NewDateTimeCriterion(p.WorkerCount, start, end, p.Timezone)

	case KindCPU:
		var p thresholdPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		return NewCPUCriterion(p.Threshold, p.Workers)

	case KindMemory:
		var p thresholdPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		return NewMemoryCriterion(p.Threshold, p.Workers)

	case KindMulti:
		var p multiPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		pairs := make([]CriterionPair, 0, len(p.Criteria))
		for _, item := range p.Criteria {
			child, err := FromMap(item.Criterion)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, CriterionPair{Criterion: child, Workers: item.Workers})
		}
		return NewMultiCriterion(pairs, Logic(p.Logic))

	case KindConditional:
		var p conditionalPayload
		if err := decodePayload(kind, m, &p); err != nil {
			return nil, err
		}
		condition, err := FromMap(p.Condition)
		if err != nil {
			return nil, err
		}
		action, err := FromMap(p.Action)
		if err != nil {
			return nil, err
		}
		return NewConditionalCriterion(condition, action, p.Workers)

	default:
		return nil, fmt.Errorf("%w: unknown criterion type %q", core.ErrInvalidConfig, kind)
	}
}

// FromJSON decodes a criterion from the JSON encoding of its tagged mapping.
func FromJSON(data []byte) (Criterion, error) {
	m, err := unmarshalMap(data)
	if err != nil {
		return nil, err
	}
	return FromMap(m)
}

// ToJSON encodes a criterion's tagged mapping as JSON.
func ToJSON(c Criterion) ([]byte, error) {
	data, err := json.Marshal(c.ToMap())
	if err != nil {
		return nil, fmt.Errorf("json marshal failed: %w", err)
	}
	return data, nil
}

// PolicyFromMap reconstructs a policy from its tagged mapping.
func PolicyFromMap(m map[string]any) (*MultiCriterionPolicy, error) {
	if kind, ok := m["type"].(string); ok && kind != KindPolicy {
		return nil, fmt.Errorf("%w: expected type %q, got %q", core.ErrInvalidConfig, KindPolicy, kind)
	}
	var p policyPayload
	if err := decodePayload(KindPolicy, m, &p); err != nil {
		return nil, err
	}
	criteria := make([]Criterion, 0, len(p.Criteria))
	for _, cm := range p.Criteria {
		c, err := FromMap(cm)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return NewMultiCriterionPolicy(criteria, p.HardCap)
}

// PolicyFromJSON decodes a policy from the JSON encoding of its tagged
// mapping.
func PolicyFromJSON(data []byte) (*MultiCriterionPolicy, error) {
	m, err := unmarshalMap(data)
	if err != nil {
		return nil, err
	}
	return PolicyFromMap(m)
}

func decodePayload(kind string, m map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("decoder for %s: %w", kind, err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: malformed %s payload: %v", core.ErrInvalidConfig, kind, err)
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q: %v", core.ErrInvalidConfig, s, err)
	}
	return t, nil
}

func unmarshalMap(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", core.ErrInvalidConfig, err)
	}
	return m, nil
}
