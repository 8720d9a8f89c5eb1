package adaptivepool_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	adaptivepool "github.com/adaptric/go-adaptive-pool"
	"github.com/adaptric/go-adaptive-pool/criteria"
)

// Example demonstrates submitting work and waiting for it to drain.
func Example() {
	policy, _ := criteria.NewMultiCriterionPolicy([]criteria.Criterion{
		mustCPUCriterion(75, 4),
	}, 8)

	pool, _ := adaptivepool.New(adaptivepool.Config{
		MaxWorkers:    4,
		CheckInterval: 50 * time.Millisecond,
	}, policy)

	var sum atomic.Int64
	for i := 1; i <= 10; i++ {
		n := int64(i)
		_ = pool.Submit(func(ctx context.Context) {
			sum.Add(n)
		})
	}

	pool.Join()
	pool.Shutdown(true)

	fmt.Println(sum.Load())
	// Output: 55
}

// Example_scheduledWindow builds a policy that scales up overnight.
func Example_scheduledWindow() {
	night, _ := criteria.NewTimeCriterion(8,
		criteria.MustTimeOfDay(22, 0, 0),
		criteria.MustTimeOfDay(3, 0, 0),
		"UTC")
	policy, _ := criteria.NewMultiCriterionPolicy([]criteria.Criterion{night}, 10)

	at := func(hour int) adaptivepool.Snapshot {
		return adaptivepool.Snapshot{Now: time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)}
	}

	fmt.Println(policy.TargetWorkers(at(23)))
	fmt.Println(policy.TargetWorkers(at(12)))
	// Output:
	// 8
	// 1
}

func mustCPUCriterion(threshold float64, workers int) criteria.Criterion {
	c, err := criteria.NewCPUCriterion(threshold, workers)
	if err != nil {
		panic(err)
	}
	return c
}
