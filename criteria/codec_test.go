package criteria

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptric/go-adaptive-pool/core"
)

// decisionsDiff compares two criteria by their decisions over a spread of
// snapshots. Criteria carry unexported fields and *time.Location values, so
// behavioral equivalence is the round-trip property worth asserting.
func decisionsDiff(a, b Criterion, snapshots []core.Snapshot) string {
	decide := func(c Criterion) []int {
		out := make([]int, len(snapshots))
		for i, s := range snapshots {
			out[i] = c.Workers(s)
		}
		return out
	}
	return cmp.Diff(decide(a), decide(b))
}

func probeSnapshots() []core.Snapshot {
	instants := []time.Time{
		time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	loads := []struct{ cpu, mem float64 }{
		{0, 0}, {50, 50}, {80, 60}, {95, 95},
	}

	var out []core.Snapshot
	for _, now := range instants {
		for _, l := range loads {
			out = append(out, core.Snapshot{Now: now, CPUPercent: l.cpu, MemoryPercent: l.mem})
		}
	}
	return out
}

// TestCodec_TimeCriterionRoundTrip verifies JSON persistence of the daily window
func TestCodec_TimeCriterionRoundTrip(t *testing.T) {
	original, err := NewTimeCriterion(8, MustTimeOfDay(22, 0, 0), MustTimeOfDay(3, 0, 0), "America/New_York")
	if err != nil {
		t.Fatalf("NewTimeCriterion failed: %v", err)
	}

	data, err := ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if decoded.Kind() != KindTime {
		t.Errorf("decoded Kind = %q, want %q", decoded.Kind(), KindTime)
	}
	if diff := decisionsDiff(original, decoded, probeSnapshots()); diff != "" {
		t.Errorf("decisions diverge after round trip (-original +decoded):\n%s", diff)
	}
	if diff := cmp.Diff(original.ToMap(), decoded.ToMap()); diff != "" {
		t.Errorf("mappings diverge after round trip (-original +decoded):\n%s", diff)
	}
}

// TestCodec_DateTimeCriterionRoundTrip verifies the absolute window
func TestCodec_DateTimeCriterionRoundTrip(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	original, err := NewDateTimeCriterion(10, start, end, "UTC")
	if err != nil {
		t.Fatalf("NewDateTimeCriterion failed: %v", err)
	}

	data, err := ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if diff := decisionsDiff(original, decoded, probeSnapshots()); diff != "" {
		t.Errorf("decisions diverge after round trip (-original +decoded):\n%s", diff)
	}
}

// TestCodec_DateTimeSubSecondBoundsRoundTrip verifies lossless timestamps
// Given: A window whose bounds carry sub-second precision
// When: Serialized to JSON and decoded
// Then: The window edges are preserved exactly, not truncated to the second
func TestCodec_DateTimeSubSecondBoundsRoundTrip(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 250_000_000, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 1, 500_000_000, time.UTC)

	original, err := NewDateTimeCriterion(5, start, end, "UTC")
	if err != nil {
		t.Fatalf("NewDateTimeCriterion failed: %v", err)
	}

	data, err := ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	edges := []struct {
		name string
		now  time.Time
		want int
	}{
		{"just before start", start.Add(-time.Nanosecond), 1},
		{"at start", start, 5},
		{"just before end", end.Add(-time.Nanosecond), 5},
		{"at end", end, 1},
	}
	for _, tc := range edges {
		if got := decoded.Workers(core.Snapshot{Now: tc.now}); got != tc.want {
			t.Errorf("%s: decoded Workers = %d, want %d", tc.name, got, tc.want)
		}
	}
	if diff := cmp.Diff(original.ToMap(), decoded.ToMap()); diff != "" {
		t.Errorf("mappings diverge after round trip (-original +decoded):\n%s", diff)
	}
}

// TestCodec_ThresholdCriteriaRoundTrip covers the CPU and memory shapes
func TestCodec_ThresholdCriteriaRoundTrip(t *testing.T) {
	cpu, err := NewCPUCriterion(75.5, 4)
	if err != nil {
		t.Fatalf("NewCPUCriterion failed: %v", err)
	}
	mem, err := NewMemoryCriterion(80, 6)
	if err != nil {
		t.Fatalf("NewMemoryCriterion failed: %v", err)
	}

	for _, original := range []Criterion{cpu, mem} {
		data, err := ToJSON(original)
		if err != nil {
			t.Fatalf("ToJSON(%s) failed: %v", original.Kind(), err)
		}
		decoded, err := FromJSON(data)
		if err != nil {
			t.Fatalf("FromJSON(%s) failed: %v", original.Kind(), err)
		}
		if decoded.Kind() != original.Kind() {
			t.Errorf("decoded Kind = %q, want %q", decoded.Kind(), original.Kind())
		}
		if diff := decisionsDiff(original, decoded, probeSnapshots()); diff != "" {
			t.Errorf("%s decisions diverge (-original +decoded):\n%s", original.Kind(), diff)
		}
	}
}

// TestCodec_NestedCombinatorRoundTrip verifies deep reconstruction
// Given: A conditional wrapping a multi criterion wrapping leaf criteria
// When: Serialized to JSON and decoded
// Then: The whole tree behaves identically
func TestCodec_NestedCombinatorRoundTrip(t *testing.T) {
	night, err := NewTimeCriterion(2, MustTimeOfDay(22, 0, 0), MustTimeOfDay(6, 0, 0), "UTC")
	if err != nil {
		t.Fatalf("NewTimeCriterion failed: %v", err)
	}
	load, err := NewMultiCriterion([]CriterionPair{
		{Criterion: mustCPU(t, 60, 2), Workers: 6},
		{Criterion: mustMemory(t, 70, 2), Workers: 8},
	}, LogicOr)
	if err != nil {
		t.Fatalf("NewMultiCriterion failed: %v", err)
	}
	original, err := NewConditionalCriterion(night, load, 2)
	if err != nil {
		t.Fatalf("NewConditionalCriterion failed: %v", err)
	}

	data, err := ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if diff := decisionsDiff(original, decoded, probeSnapshots()); diff != "" {
		t.Errorf("decisions diverge after round trip (-original +decoded):\n%s", diff)
	}
	if diff := cmp.Diff(original.ToMap(), decoded.ToMap()); diff != "" {
		t.Errorf("mappings diverge after round trip (-original +decoded):\n%s", diff)
	}
}

// TestCodec_PolicyRoundTrip verifies whole-policy persistence
func TestCodec_PolicyRoundTrip(t *testing.T) {
	night, err := NewTimeCriterion(8, MustTimeOfDay(22, 0, 0), MustTimeOfDay(3, 0, 0), "UTC")
	if err != nil {
		t.Fatalf("NewTimeCriterion failed: %v", err)
	}
	original, err := NewMultiCriterionPolicy([]Criterion{
		night,
		mustCPU(t, 75, 4),
		mustMemory(t, 80, 6),
	}, 10)
	if err != nil {
		t.Fatalf("NewMultiCriterionPolicy failed: %v", err)
	}

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	decoded, err := PolicyFromJSON(data)
	if err != nil {
		t.Fatalf("PolicyFromJSON failed: %v", err)
	}

	if decoded.HardCap() != 10 {
		t.Errorf("decoded HardCap = %d, want 10", decoded.HardCap())
	}
	for _, s := range probeSnapshots() {
		if got, want := decoded.TargetWorkers(s), original.TargetWorkers(s); got != want {
			t.Errorf("TargetWorkers(%+v) = %d after round trip, want %d", s, got, want)
		}
	}
	if diff := cmp.Diff(original.ToMap(), decoded.ToMap()); diff != "" {
		t.Errorf("mappings diverge after round trip (-original +decoded):\n%s", diff)
	}
}

// TestCodec_DiscriminatorsAreStable pins the persisted type tags
func TestCodec_DiscriminatorsAreStable(t *testing.T) {
	tags := map[string]string{
		KindTime:        "TimeCriterion",
		KindDateTime:    "DateTimeCriterion",
		KindCPU:         "CpuCriterion",
		KindMemory:      "MemoryCriterion",
		KindMulti:       "MultiCriterion",
		KindConditional: "ConditionalCriterion",
		KindPolicy:      "MultiCriterionPolicy",
	}
	for got, want := range tags {
		if got != want {
			t.Errorf("discriminator %q changed, want %q", got, want)
		}
	}
}

// TestCodec_Errors verifies decode failure modes
func TestCodec_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"missing type tag", map[string]any{"workers": 4}},
		{"unknown type", map[string]any{"type": "DiskCriterion", "workers": 4}},
		{"bad time of day", map[string]any{
			"type": KindTime, "worker_count": 4,
			"active_start": "25:00", "active_end": "17:00", "timezone": "UTC",
		}},
		{"bad timestamp", map[string]any{
			"type": KindDateTime, "worker_count": 4,
			"active_start": "yesterday", "active_end": "2025-07-01T00:00:00Z", "timezone": "UTC",
		}},
		{"invalid threshold", map[string]any{
			"type": KindCPU, "threshold": 250, "workers": 4,
		}},
		{"nested failure surfaces", map[string]any{
			"type": KindMulti,
			"criteria": []any{map[string]any{
				"criterion": map[string]any{"type": "DiskCriterion"},
				"workers":   3,
			}},
			"logic": "or",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromMap(tc.in); !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("FromMap error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if _, err := FromJSON([]byte("{not json")); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("FromJSON on invalid JSON = %v, want ErrInvalidConfig", err)
	}
	if _, err := PolicyFromMap(map[string]any{"type": "TimeCriterion"}); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("PolicyFromMap with wrong tag = %v, want ErrInvalidConfig", err)
	}
}

// TestCodec_WeaklyTypedNumbers verifies JSON float64 coercion into int fields
func TestCodec_WeaklyTypedNumbers(t *testing.T) {
	decoded, err := FromMap(map[string]any{
		"type":      KindCPU,
		"threshold": float64(75),
		"workers":   float64(4),
	})
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if got := decoded.Workers(core.Snapshot{CPUPercent: 80}); got != 4 {
		t.Errorf("Workers = %d, want 4", got)
	}
}
