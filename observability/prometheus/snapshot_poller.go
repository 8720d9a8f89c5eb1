package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/adaptric/go-adaptive-pool/core"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus
// gauges: queue depth, in-flight, active, delayed, the permit limit, the last
// policy decision, and the lifecycle state.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueued      *prom.GaugeVec
	poolInFlight    *prom.GaugeVec
	poolActive      *prom.GaugeVec
	poolDelayed     *prom.GaugeVec
	poolWorkerLimit *prom.GaugeVec
	poolLastTarget  *prom.GaugeVec
	poolRunning     *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_queued",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	poolInFlight := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_in_flight",
		Help:      "Submitted but unfinished tasks per pool.",
	}, []string{"pool"})
	poolActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_active",
		Help:      "Tasks currently holding a permit per pool.",
	}, []string{"pool"})
	poolDelayed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_delayed",
		Help:      "Scheduled tasks not yet due per pool.",
	}, []string{"pool"})
	poolWorkerLimit := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_worker_limit",
		Help:      "Current permit limit per pool.",
	}, []string{"pool"})
	poolLastTarget := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_last_target",
		Help:      "Last policy worker-count decision per pool.",
	}, []string{"pool"})
	poolRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "adaptivepool",
		Name:      "pool_running",
		Help:      "Pool running state (1=running, 0=draining or stopped).",
	}, []string{"pool"})

	var err error
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolInFlight, err = registerCollector(reg, poolInFlight); err != nil {
		return nil, err
	}
	if poolActive, err = registerCollector(reg, poolActive); err != nil {
		return nil, err
	}
	if poolDelayed, err = registerCollector(reg, poolDelayed); err != nil {
		return nil, err
	}
	if poolWorkerLimit, err = registerCollector(reg, poolWorkerLimit); err != nil {
		return nil, err
	}
	if poolLastTarget, err = registerCollector(reg, poolLastTarget); err != nil {
		return nil, err
	}
	if poolRunning, err = registerCollector(reg, poolRunning); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:        interval,
		pools:           make(map[string]PoolSnapshotProvider),
		poolQueued:      poolQueued,
		poolInFlight:    poolInFlight,
		poolActive:      poolActive,
		poolDelayed:     poolDelayed,
		poolWorkerLimit: poolWorkerLimit,
		poolLastTarget:  poolLastTarget,
		poolRunning:     poolRunning,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "pool"
	}
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// RemovePool drops the provider registered under name.
func (p *SnapshotPoller) RemovePool(name string) {
	if p == nil {
		return
	}
	p.poolsMu.Lock()
	delete(p.pools, name)
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolInFlight.WithLabelValues(name).Set(float64(stats.InFlight))
		p.poolActive.WithLabelValues(name).Set(float64(stats.Active))
		p.poolDelayed.WithLabelValues(name).Set(float64(stats.Delayed))
		p.poolWorkerLimit.WithLabelValues(name).Set(float64(stats.WorkerLimit))
		p.poolLastTarget.WithLabelValues(name).Set(float64(stats.LastTarget))
		if stats.State == core.StateRunning.String() {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
}
