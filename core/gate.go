package core

import "sync"

// ScalingGate is the bounded permit counter gating concurrent task execution.
// It owns two values: the immutable ceiling max, and the live limit in
// [1, max] that the control loop adjusts through Resize.
//
// Acquire/Release happen concurrently from many workers; Resize runs only
// from the control loop. Shrinking is lazy: a lower limit stops future
// acquisitions but never preempts permits already held, so held may exceed
// limit until running tasks complete.
type ScalingGate struct {
	max int

	mu     sync.Mutex
	cond   *sync.Cond
	limit  int
	held   int
	closed bool
}

// NewScalingGate creates a gate with the given permit ceiling and an initial
// limit clamped to [1, max]. Panics if max < 1; the ceiling comes from a
// validated pool config.
func NewScalingGate(max, initial int) *ScalingGate {
	if max < 1 {
		panic("ScalingGate: max must be at least 1")
	}
	g := &ScalingGate{max: max, limit: clamp(initial, 1, max)}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Acquire blocks until a permit is available, then takes it. Returns
// ErrGateClosed if the gate was closed before a permit could be taken.
// Wakeups are broadcast, so waiting acquisitions are starvation-free as long
// as the limit stays at 1 or above (which Resize guarantees).
func (g *ScalingGate) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.held >= g.limit && !g.closed {
		g.cond.Wait()
	}
	if g.closed {
		return ErrGateClosed
	}
	g.held++
	return nil
}

// TryAcquire takes a permit without blocking. Returns false if none is
// available or the gate is closed.
func (g *ScalingGate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.held >= g.limit {
		return false
	}
	g.held++
	return true
}

// Release returns a permit. Must be called exactly once per successful
// Acquire, regardless of task outcome.
func (g *ScalingGate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held == 0 {
		panic("ScalingGate: Release without matching Acquire")
	}
	g.held--
	// Broadcast rather than Signal: after a shrink several waiters may be
	// eligible once held drops back under the limit.
	g.cond.Broadcast()
}

// Resize sets the live limit to target clamped into [1, max] and returns the
// applied value. Raising the limit wakes waiting workers immediately;
// lowering it only affects future acquisitions.
func (g *ScalingGate) Resize(target int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	applied := clamp(target, 1, g.max)
	grew := applied > g.limit
	g.limit = applied
	if grew {
		g.cond.Broadcast()
	}
	return applied
}

// Close permanently wakes all waiters; subsequent Acquire calls fail with
// ErrGateClosed. Held permits may still be released.
func (g *ScalingGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	g.cond.Broadcast()
}

// Limit returns the current live limit.
func (g *ScalingGate) Limit() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limit
}

// Held returns the number of permits currently held.
func (g *ScalingGate) Held() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// Max returns the immutable permit ceiling.
func (g *ScalingGate) Max() int { return g.max }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
