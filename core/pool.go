package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the pool lifecycle state.
type State int32

const (
	// StateRunning accepts submissions and reconciles capacity.
	StateRunning State = iota
	// StateDraining rejects submissions while in-flight tasks finish.
	StateDraining
	// StateStopped is terminal; all workers have exited.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config holds pool construction parameters. MaxWorkers and CheckInterval
// are required; everything else has a working default.
type Config struct {
	// ID identifies the pool in logs and metrics. Defaults to a random UUID.
	ID string

	// MaxWorkers is the immutable permit ceiling. The policy can never push
	// concurrency above it.
	MaxWorkers int

	// CheckInterval is how often the control loop asks the policy for a
	// target and reconciles the permit limit toward it.
	CheckInterval time.Duration

	// HistorySize bounds the recent-task ring. 0 uses the default capacity.
	HistorySize int

	Logger       Logger
	Metrics      Metrics
	PanicHandler PanicHandler

	// Clock supplies the instant for policy snapshots. Defaults to the
	// system clock.
	Clock Clock

	// Probe supplies CPU/memory utilization for policy snapshots. Defaults
	// to a zero StaticProbe, which keeps resource criteria at their
	// inactive decision.
	Probe ResourceProbe
}

// Pool is a worker pool whose active concurrency is adjusted at runtime by a
// Policy. MaxWorkers goroutines pull from a FIFO intake; each task executes
// only while holding one permit from the ScalingGate, and the background
// control loop resizes the gate every CheckInterval.
type Pool struct {
	id            string
	maxWorkers    int
	checkInterval time.Duration

	policyMu sync.RWMutex
	policy   Policy

	queue   *taskQueue
	signal  chan struct{}
	gate    *ScalingGate
	tracker *inflightTracker
	delay   *delayManager

	state    atomic.Int32
	ctx      context.Context
	cancel   context.CancelFunc
	workers  sync.WaitGroup
	quitCtrl chan struct{}
	ctrlDone chan struct{}
	stopped  chan struct{}

	lastTarget atomic.Int64
	active     atomic.Int32
	completed  atomic.Int64
	panicked   atomic.Int64
	rejected   atomic.Int64

	logger       Logger
	metrics      Metrics
	panicHandler PanicHandler
	clock        Clock
	probe        ResourceProbe

	history *executionHistory
}

// NewPool validates cfg, applies one initial reconcile so the permit limit
// reflects the policy before the first tick, and starts the workers and the
// control loop. The pool is RUNNING when NewPool returns.
func NewPool(cfg Config, policy Policy) (*Pool, error) {
	if policy == nil {
		return nil, fmt.Errorf("%w: policy must not be nil", ErrInvalidConfig)
	}
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("%w: MaxWorkers must be at least 1, got %d", ErrInvalidConfig, cfg.MaxWorkers)
	}
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("%w: CheckInterval must be positive, got %v", ErrInvalidConfig, cfg.CheckInterval)
	}

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = NewDefaultLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &NilMetrics{}
	}
	if cfg.PanicHandler == nil {
		cfg.PanicHandler = &DefaultPanicHandler{}
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Probe == nil {
		cfg.Probe = StaticProbe{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		id:            cfg.ID,
		maxWorkers:    cfg.MaxWorkers,
		checkInterval: cfg.CheckInterval,
		policy:        policy,
		queue:         newTaskQueue(),
		signal:        make(chan struct{}, cfg.MaxWorkers*2),
		gate:          NewScalingGate(cfg.MaxWorkers, 1),
		tracker:       newInflightTracker(),
		ctx:           ctx,
		cancel:        cancel,
		quitCtrl:      make(chan struct{}),
		ctrlDone:      make(chan struct{}),
		stopped:       make(chan struct{}),
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		panicHandler:  cfg.PanicHandler,
		clock:         cfg.Clock,
		probe:         cfg.Probe,
		history:       newExecutionHistory(cfg.HistorySize),
	}
	p.delay = newDelayManager(p.deliverDelayed)

	p.reconcile()

	for i := 0; i < p.maxWorkers; i++ {
		p.workers.Add(1)
		go p.worker(i)
	}
	go p.controlLoop()

	p.logger.Info("pool started",
		F("pool", p.id),
		F("maxWorkers", p.maxWorkers),
		F("workerLimit", p.gate.Limit()),
		F("checkInterval", p.checkInterval))
	return p, nil
}

// Submit enqueues task for execution by any available worker. Fails with
// ErrPoolClosed unless the pool is RUNNING.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return fmt.Errorf("%w: task must not be nil", ErrInvalidConfig)
	}
	if p.State() != StateRunning {
		return p.reject()
	}

	p.tracker.Add()
	// Re-check after counting: Shutdown stores DRAINING before it waits on
	// the tracker, so a submission that sees RUNNING here is guaranteed to
	// be included in the drain.
	if p.State() != StateRunning {
		p.tracker.Done()
		return p.reject()
	}

	p.queue.Push(task)
	p.metrics.RecordQueueDepth(p.id, p.queue.Len())
	select {
	case p.signal <- struct{}{}:
	default:
		// Signal channel full; a worker is already being woken.
	}
	return nil
}

// SubmitAfter schedules task to be submitted after delay. A delayed task is
// not in-flight until it is actually submitted: Join does not wait for it,
// and shutdown drops tasks that have not come due.
func (p *Pool) SubmitAfter(task Task, delay time.Duration) error {
	if task == nil {
		return fmt.Errorf("%w: task must not be nil", ErrInvalidConfig)
	}
	if delay <= 0 {
		return p.Submit(task)
	}
	if p.State() != StateRunning {
		return p.reject()
	}
	p.delay.Add(task, delay)
	return nil
}

func (p *Pool) reject() error {
	p.rejected.Add(1)
	p.metrics.RecordTaskRejected(p.id, p.State().String())
	return fmt.Errorf("%w: pool %q is %s", ErrPoolClosed, p.id, p.State())
}

func (p *Pool) deliverDelayed(task Task) {
	if err := p.Submit(task); err != nil {
		p.logger.Debug("delayed task dropped", F("pool", p.id), F("error", err))
	}
}

// Join blocks until all submitted tasks have completed, including tasks
// submitted while waiting, as long as the in-flight count never touched zero
// in between. Task failures never surface here.
func (p *Pool) Join() {
	p.tracker.Wait()
}

// JoinTimeout waits like Join but gives up after d. Returns true if all
// in-flight work drained in time.
func (p *Pool) JoinTimeout(d time.Duration) bool {
	return p.tracker.WaitTimeout(d)
}

// Shutdown transitions RUNNING -> DRAINING, stops the control loop and new
// submissions, and lets in-flight tasks finish. With wait=true it blocks
// until the pool reaches STOPPED; with wait=false the drain continues in the
// background, which makes it safe to call from a signal handler. Idempotent.
func (p *Pool) Shutdown(wait bool) {
	if p.state.CompareAndSwap(int32(StateRunning), int32(StateDraining)) {
		p.logger.Info("pool draining", F("pool", p.id), F("inFlight", p.tracker.Count()))
		close(p.quitCtrl)
		p.delay.Stop()
		go p.drain()
	}
	if wait {
		<-p.stopped
	}
}

func (p *Pool) drain() {
	<-p.ctrlDone
	p.tracker.Wait()
	p.cancel()
	p.gate.Close()
	p.workers.Wait()
	p.state.Store(int32(StateStopped))
	p.logger.Info("pool stopped", F("pool", p.id), F("completed", p.completed.Load()))
	close(p.stopped)
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.workers.Done()
	stop := p.ctx.Done()

	for {
		task, ok := p.getWork(stop)
		if !ok {
			return
		}
		// A task only executes while holding one permit. The gate closes
		// strictly after the in-flight count drains, so a popped task always
		// gets its permit eventually.
		if err := p.gate.Acquire(); err != nil {
			p.tracker.Done()
			return
		}
		p.runTask(id, task)
	}
}

func (p *Pool) getWork(stop <-chan struct{}) (Task, bool) {
	for {
		if task, ok := p.queue.Pop(); ok {
			return task, true
		}
		select {
		case <-p.signal:
			continue
		case <-stop:
			return nil, false
		}
	}
}

func (p *Pool) runTask(workerID int, task Task) {
	defer p.tracker.Done()
	defer p.gate.Release()

	p.active.Add(1)
	defer p.active.Add(-1)

	startedAt := time.Now()
	panicked := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				p.panicked.Add(1)
				p.metrics.RecordTaskPanic(p.id, r)
				p.panicHandler.HandlePanic(p.ctx, p.id, workerID, r, debug.Stack())
			}
		}()
		task(p.ctx)
	}()

	finishedAt := time.Now()
	p.completed.Add(1)
	p.metrics.RecordTaskDuration(p.id, finishedAt.Sub(startedAt))
	p.history.Add(TaskExecutionRecord{
		PoolID:     p.id,
		WorkerID:   workerID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
		Panicked:   panicked,
	})
}

// controlLoop periodically reconciles the permit limit with the policy's
// decision. It is the only writer of the gate's limit.
func (p *Pool) controlLoop() {
	defer close(p.ctrlDone)

	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quitCtrl:
			return
		case <-ticker.C:
			p.reconcile()
		}
	}
}

// reconcile asks the policy for a target and converges the gate toward it.
// Probe or policy oddities cost at most this one cycle; the loop itself
// never terminates on them.
func (p *Pool) reconcile() {
	target := p.Policy().TargetWorkers(p.snapshot())
	prev := p.gate.Limit()
	applied := p.gate.Resize(target)

	p.lastTarget.Store(int64(target))
	p.metrics.RecordScaleDecision(p.id, target, applied)

	if applied != prev {
		p.logger.Info("adjusted worker concurrency",
			F("pool", p.id),
			F("old", prev),
			F("new", applied),
			F("max", p.maxWorkers))
	}
}

func (p *Pool) snapshot() Snapshot {
	s := Snapshot{Now: p.clock.Now()}

	cpu, err := p.probe.CPUPercent()
	if err != nil {
		p.logger.Warn("cpu probe read failed", F("pool", p.id), F("error", err))
	} else {
		s.CPUPercent = cpu
	}

	mem, err := p.probe.MemoryPercent()
	if err != nil {
		p.logger.Warn("memory probe read failed", F("pool", p.id), F("error", err))
	} else {
		s.MemoryPercent = mem
	}

	return s
}

// SetPolicy swaps the scaling policy. The new policy takes effect on the
// next control-loop cycle.
func (p *Pool) SetPolicy(policy Policy) error {
	if policy == nil {
		return fmt.Errorf("%w: policy must not be nil", ErrInvalidConfig)
	}
	p.policyMu.Lock()
	p.policy = policy
	p.policyMu.Unlock()
	p.logger.Info("policy replaced", F("pool", p.id))
	return nil
}

// Policy returns the current scaling policy.
func (p *Pool) Policy() Policy {
	p.policyMu.RLock()
	defer p.policyMu.RUnlock()
	return p.policy
}

// ID returns the pool's identifier.
func (p *Pool) ID() string { return p.id }

// MaxWorkers returns the immutable permit ceiling.
func (p *Pool) MaxWorkers() int { return p.maxWorkers }

// State returns the pool lifecycle state.
func (p *Pool) State() State { return State(p.state.Load()) }

// CurrentLimit returns the live permit limit set by the control loop.
func (p *Pool) CurrentLimit() int { return p.gate.Limit() }

// LastDecision returns the most recent policy target, before clamping to
// MaxWorkers.
func (p *Pool) LastDecision() int { return int(p.lastTarget.Load()) }

// InFlight returns the number of tasks submitted but not yet finished.
func (p *Pool) InFlight() int { return p.tracker.Count() }

// QueuedTaskCount returns the number of tasks waiting in the intake queue.
func (p *Pool) QueuedTaskCount() int { return p.queue.Len() }

// ActiveTaskCount returns the number of tasks currently holding a permit.
func (p *Pool) ActiveTaskCount() int { return int(p.active.Load()) }

// DelayedTaskCount returns the number of scheduled tasks not yet due.
func (p *Pool) DelayedTaskCount() int { return p.delay.TaskCount() }

// RecentTasks returns completed task execution records in newest-first order.
func (p *Pool) RecentTasks(limit int) []TaskExecutionRecord {
	return p.history.Recent(limit)
}

// Stats returns current observability data for this pool.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		ID:          p.id,
		MaxWorkers:  p.maxWorkers,
		WorkerLimit: p.gate.Limit(),
		LastTarget:  p.LastDecision(),
		InFlight:    p.tracker.Count(),
		Queued:      p.queue.Len(),
		Active:      int(p.active.Load()),
		Delayed:     p.delay.TaskCount(),
		Completed:   p.completed.Load(),
		Panicked:    p.panicked.Load(),
		Rejected:    p.rejected.Load(),
		State:       p.State().String(),
	}
}
