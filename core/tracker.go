package core

import (
	"sync"
	"time"
)

// inflightTracker counts tasks that have been submitted but not yet finished.
// Wait blocks until the count drains to zero. The increment happens at
// submission and the decrement after the task completes (success or panic),
// so a zero count means everything visible before the Wait has run.
type inflightTracker struct {
	mu    sync.Mutex
	count int
	idle  chan struct{} // closed while count == 0
}

func newInflightTracker() *inflightTracker {
	t := &inflightTracker{idle: make(chan struct{})}
	close(t.idle)
	return t
}

func (t *inflightTracker) Add() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == 0 {
		t.idle = make(chan struct{})
	}
	t.count++
}

func (t *inflightTracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == 0 {
		panic("inflightTracker: Done without matching Add")
	}
	t.count--
	if t.count == 0 {
		close(t.idle)
	}
}

// Wait blocks until the in-flight count reaches zero. Tasks submitted while
// waiting extend the wait only if the count never touched zero in between.
func (t *inflightTracker) Wait() {
	<-t.idleChan()
}

// WaitTimeout waits like Wait but gives up after d. Returns true if the
// count drained in time.
func (t *inflightTracker) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-t.idleChan():
		return true
	case <-timer.C:
		return false
	}
}

func (t *inflightTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *inflightTracker) idleChan() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idle
}
