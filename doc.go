// Package adaptivepool provides a bounded concurrent worker pool whose
// active capacity is adjusted at runtime by a pluggable scaling policy.
//
// Workers gate task execution on permits; a background control loop wakes
// every CheckInterval, asks the policy for a target worker count, and
// converges the live permit limit toward it. Policies compose independent
// scaling criteria — daily time windows, one-off datetime windows, CPU and
// memory thresholds, and AND/OR/conditional combinators — and clamp the
// result to a hard cap.
//
// # Quick Start
//
//	window, _ := criteria.NewTimeCriterion(8,
//		criteria.MustTimeOfDay(22, 0, 0),
//		criteria.MustTimeOfDay(3, 0, 0),
//		"UTC")
//	policy, _ := criteria.NewMultiCriterionPolicy([]criteria.Criterion{window}, 10)
//
//	pool, err := adaptivepool.New(adaptivepool.Config{
//		MaxWorkers:    10,
//		CheckInterval: 30 * time.Second,
//	}, policy)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Shutdown(true)
//
//	pool.Submit(func(ctx context.Context) {
//		// Your work here.
//	})
//	pool.Join()
//
// # Key Concepts
//
// Criterion: a pure decision function from the current context (clock time,
// resource snapshot) to a desired worker count. All variants fall back to 1
// when their condition does not hold.
//
// Policy: aggregates an ordered list of criteria plus a hard cap into one
// decision; each independent signal can unilaterally justify scaling up.
//
// ScalingGate: the permit counter enforcing the live limit. Shrinking is
// lazy — running tasks are never preempted; the pool converges as they
// complete.
//
// # Configuration persistence
//
// Every criterion and policy round-trips through a tagged mapping and its
// JSON encoding (criteria.ToJSON / criteria.PolicyFromJSON). The config
// package loads policies from YAML or JSON files and can hot-reload a
// running pool through an fsnotify watcher:
//
//	policy, _ := config.LoadPolicy("policy.yaml")
//	pool, _ := adaptivepool.New(cfg, policy)
//	w, _ := config.WatchPolicy("policy.yaml", func(p *criteria.MultiCriterionPolicy) {
//		pool.SetPolicy(p)
//	}, nil)
//	defer w.Close()
//
// # Observability
//
// Pool.Stats exposes the current permit limit, the last policy decision, and
// queue/in-flight counts. The observability/prometheus package exports task
// and scaling metrics to a Prometheus registry.
package adaptivepool
