package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/adaptric/go-adaptive-pool/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskPanicTotal      *prom.CounterVec
	taskRejectedTotal   *prom.CounterVec
	queueDepth          *prom.GaugeVec
	targetWorkers       *prom.GaugeVec
	workerLimit         *prom.GaugeVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "adaptivepool"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"pool"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task panics.",
	}, []string{"pool"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of rejected submissions.",
	}, []string{"pool", "reason"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current intake queue depth.",
	}, []string{"pool"})
	targetVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "target_workers",
		Help:      "Last policy worker-count decision.",
	}, []string{"pool"})
	limitVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_limit",
		Help:      "Applied permit limit after clamping.",
	}, []string{"pool"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}
	if targetVec, err = registerCollector(reg, targetVec); err != nil {
		return nil, err
	}
	if limitVec, err = registerCollector(reg, limitVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		taskPanicTotal:      panicVec,
		taskRejectedTotal:   rejectedVec,
		queueDepth:          queueDepthVec,
		targetWorkers:       targetVec,
		workerLimit:         limitVec,
	}, nil
}

func (e *MetricsExporter) RecordTaskDuration(poolID string, duration time.Duration) {
	e.taskDurationSeconds.WithLabelValues(poolID).Observe(duration.Seconds())
}

func (e *MetricsExporter) RecordTaskPanic(poolID string, panicInfo any) {
	e.taskPanicTotal.WithLabelValues(poolID).Inc()
}

func (e *MetricsExporter) RecordTaskRejected(poolID string, reason string) {
	e.taskRejectedTotal.WithLabelValues(poolID, reason).Inc()
}

func (e *MetricsExporter) RecordScaleDecision(poolID string, target, limit int) {
	e.targetWorkers.WithLabelValues(poolID).Set(float64(target))
	e.workerLimit.WithLabelValues(poolID).Set(float64(limit))
}

func (e *MetricsExporter) RecordQueueDepth(poolID string, depth int) {
	e.queueDepth.WithLabelValues(poolID).Set(float64(depth))
}

// registerCollector registers c, reusing an existing identical collector if
// one is already registered.
func registerCollector[C prom.Collector](reg prom.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prom.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return c, err
	}
	return c, nil
}
