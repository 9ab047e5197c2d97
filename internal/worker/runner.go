package worker

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/nail-scheduler/internal/metrics"
)

// Task is one periodic job; Run returns how many items it processed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

type Runner struct {
	tasks    []Task
	interval time.Duration
}

func NewRunner(interval time.Duration, tasks ...Task) *Runner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runner{tasks: tasks, interval: interval}
}

// RunOnce executes every task in order. A failing task does not stop the
// others.
func (r *Runner) RunOnce(ctx context.Context) {
	for _, t := range r.tasks {
		if ctx.Err() != nil {
			return
		}

		n, err := t.Run(ctx)
		if err != nil {
			metrics.WorkerRuns.WithLabelValues(t.Name, "error").Inc()
			log.Printf("[worker] %s failed: %v", t.Name, err)
			continue
		}

		metrics.WorkerRuns.WithLabelValues(t.Name, "ok").Inc()
		if n > 0 {
			log.Printf("[worker] %s processed %d", t.Name, n)
		}
	}
}

// Run ticks until ctx is cancelled, starting with an immediate pass.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Printf("[worker] started, interval %s", r.interval)
	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[worker] stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
