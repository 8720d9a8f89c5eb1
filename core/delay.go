package core

import (
	"container/heap"
	"sync"
	"time"
)

// delayedTask represents a task scheduled for future submission.
type delayedTask struct {
	runAt time.Time
	task  Task
	index int // for heap interface
}

// delayedHeap implements heap.Interface ordered by runAt.
type delayedHeap []*delayedTask

func (h delayedHeap) Len() int           { return len(h) }
func (h delayedHeap) Less(i, j int) bool { return h[i].runAt.Before(h[j].runAt) }
func (h delayedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *delayedHeap) Push(x any) {
	n := len(*h)
	item := x.(*delayedTask)
	item.index = n
	*h = append(*h, item)
}

func (h *delayedHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	item.index = -1
	*h = old[0 : n-1]
	return item
}

func (h *delayedHeap) Peek() *delayedTask {
	if len(*h) == 0 {
		return nil
	}
	return (*h)[0]
}

// delayManager holds tasks posted with SubmitAfter until they are due, then
// hands them to deliver. One goroutine sleeps until the earliest deadline;
// adding an earlier task wakes it to recalculate. Stop drops whatever has not
// fired yet.
type delayManager struct {
	mu      sync.Mutex
	pq      delayedHeap
	wakeup  chan struct{}
	quit    chan struct{}
	stopped sync.Once
	deliver func(Task)
}

func newDelayManager(deliver func(Task)) *delayManager {
	dm := &delayManager{
		pq:      make(delayedHeap, 0),
		wakeup:  make(chan struct{}, 1),
		quit:    make(chan struct{}),
		deliver: deliver,
	}
	heap.Init(&dm.pq)
	go dm.loop()
	return dm
}

func (dm *delayManager) Add(task Task, delay time.Duration) {
	dm.mu.Lock()
	item := &delayedTask{runAt: time.Now().Add(delay), task: task}
	heap.Push(&dm.pq, item)
	earliest := item.index == 0
	dm.mu.Unlock()

	if earliest {
		select {
		case dm.wakeup <- struct{}{}:
		default:
		}
	}
}

func (dm *delayManager) TaskCount() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return len(dm.pq)
}

func (dm *delayManager) Stop() {
	dm.stopped.Do(func() { close(dm.quit) })
}

func (dm *delayManager) loop() {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		wait, idle := dm.nextWait()
		if idle {
			// No pending tasks; sleep until woken or stopped.
			select {
			case <-dm.quit:
				return
			case <-dm.wakeup:
				continue
			}
		}

		timer.Reset(wait)
		select {
		case <-dm.quit:
			timer.Stop()
			return
		case <-timer.C:
			dm.deliverDue()
		case <-dm.wakeup:
			// An earlier task arrived; recalculate.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
	}
}

// nextWait returns how long to sleep until the earliest task is due.
// idle is true when the heap is empty.
func (dm *delayManager) nextWait() (wait time.Duration, idle bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	item := dm.pq.Peek()
	if item == nil {
		return 0, true
	}
	wait = time.Until(item.runAt)
	if wait < 0 {
		wait = 0
	}
	return wait, false
}

func (dm *delayManager) deliverDue() {
	for {
		dm.mu.Lock()
		item := dm.pq.Peek()
		if item == nil || item.runAt.After(time.Now()) {
			dm.mu.Unlock()
			return
		}
		heap.Pop(&dm.pq)
		dm.mu.Unlock()

		dm.deliver(item.task)
	}
}
