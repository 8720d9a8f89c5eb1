package core

import (
	"testing"
	"time"
)

func historyRecord(workerID int) TaskExecutionRecord {
	now := time.Now()
	return TaskExecutionRecord{
		PoolID:     "history-pool",
		WorkerID:   workerID,
		StartedAt:  now,
		FinishedAt: now,
	}
}

// TestExecutionHistory_NewestFirst verifies read ordering
func TestExecutionHistory_NewestFirst(t *testing.T) {
	h := newExecutionHistory(10)
	for i := 0; i < 3; i++ {
		h.Add(historyRecord(i))
	}

	records := h.Recent(0)
	if len(records) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(records))
	}
	for i, r := range records {
		if want := 2 - i; r.WorkerID != want {
			t.Errorf("records[%d].WorkerID = %d, want %d", i, r.WorkerID, want)
		}
	}
}

// TestExecutionHistory_RingOverwritesOldest verifies bounded capacity
// Given: A ring of capacity 3
// When: 5 records are added
// Then: Only the newest 3 remain
func TestExecutionHistory_RingOverwritesOldest(t *testing.T) {
	h := newExecutionHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(historyRecord(i))
	}

	records := h.Recent(0)
	if len(records) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(records))
	}
	for i, want := range []int{4, 3, 2} {
		if records[i].WorkerID != want {
			t.Errorf("records[%d].WorkerID = %d, want %d", i, records[i].WorkerID, want)
		}
	}
}

// TestExecutionHistory_LimitAndLast verifies partial reads
func TestExecutionHistory_LimitAndLast(t *testing.T) {
	h := newExecutionHistory(10)

	if _, ok := h.Last(); ok {
		t.Error("Last reported a record on an empty ring")
	}
	if records := h.Recent(5); records != nil {
		t.Errorf("Recent on an empty ring = %v, want nil", records)
	}

	for i := 0; i < 4; i++ {
		h.Add(historyRecord(i))
	}

	records := h.Recent(2)
	if len(records) != 2 {
		t.Fatalf("Recent(2) returned %d records, want 2", len(records))
	}
	if records[0].WorkerID != 3 || records[1].WorkerID != 2 {
		t.Errorf("Recent(2) worker IDs = (%d, %d), want (3, 2)", records[0].WorkerID, records[1].WorkerID)
	}

	last, ok := h.Last()
	if !ok || last.WorkerID != 3 {
		t.Errorf("Last = (%v, %v), want worker 3", last.WorkerID, ok)
	}
}
