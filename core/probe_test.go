package core

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingProbe struct {
	cpuCalls atomic.Int64
	memCalls atomic.Int64
	cpu      float64
	mem      float64
	err      error
}

func (p *countingProbe) CPUPercent() (float64, error) {
	p.cpuCalls.Add(1)
	return p.cpu, p.err
}

func (p *countingProbe) MemoryPercent() (float64, error) {
	p.memCalls.Add(1)
	return p.mem, p.err
}

// TestCachedProbe_ServesFromCache verifies sample reuse within the TTL
// Given: A cached probe wrapping a counting backend
// When: CPUPercent is read repeatedly inside one TTL window
// Then: The backend is consulted only once
func TestCachedProbe_ServesFromCache(t *testing.T) {
	backend := &countingProbe{cpu: 42.5, mem: 61}
	probe := NewCachedProbe(backend, time.Minute)

	for i := 0; i < 5; i++ {
		v, err := probe.CPUPercent()
		if err != nil {
			t.Fatalf("CPUPercent failed: %v", err)
		}
		if v != 42.5 {
			t.Errorf("CPUPercent = %v, want 42.5", v)
		}
	}

	if calls := backend.cpuCalls.Load(); calls != 1 {
		t.Errorf("backend consulted %d times, want 1", calls)
	}
}

// TestCachedProbe_IndependentKeys verifies CPU and memory cache separately
func TestCachedProbe_IndependentKeys(t *testing.T) {
	backend := &countingProbe{cpu: 10, mem: 90}
	probe := NewCachedProbe(backend, time.Minute)

	if _, err := probe.CPUPercent(); err != nil {
		t.Fatalf("CPUPercent failed: %v", err)
	}
	if v, err := probe.MemoryPercent(); err != nil || v != 90 {
		t.Fatalf("MemoryPercent = (%v, %v), want (90, nil)", v, err)
	}

	if calls := backend.memCalls.Load(); calls != 1 {
		t.Errorf("memory backend consulted %d times, want 1", calls)
	}
}

// TestCachedProbe_ErrorsNotCached verifies failures are retried
// Given: A backend that fails, then recovers
// When: The probe is read across the failure
// Then: The error is surfaced, not cached, and the recovery is visible
func TestCachedProbe_ErrorsNotCached(t *testing.T) {
	backend := &countingProbe{err: errors.New("sensor offline")}
	probe := NewCachedProbe(backend, time.Minute)

	if _, err := probe.CPUPercent(); err == nil {
		t.Fatal("expected an error from the failing backend")
	}

	backend.err = nil
	backend.cpu = 33

	v, err := probe.CPUPercent()
	if err != nil {
		t.Fatalf("CPUPercent after recovery failed: %v", err)
	}
	if v != 33 {
		t.Errorf("CPUPercent = %v, want 33", v)
	}
	if calls := backend.cpuCalls.Load(); calls != 2 {
		t.Errorf("backend consulted %d times, want 2", calls)
	}
}

// TestStaticProbe verifies the fixed-value probe
func TestStaticProbe(t *testing.T) {
	probe := &StaticProbe{CPU: 55, Memory: 70}

	if v, err := probe.CPUPercent(); err != nil || v != 55 {
		t.Errorf("CPUPercent = (%v, %v), want (55, nil)", v, err)
	}
	if v, err := probe.MemoryPercent(); err != nil || v != 70 {
		t.Errorf("MemoryPercent = (%v, %v), want (70, nil)", v, err)
	}
}
