package worker

import (
	"context"
	"sync"

	"modreview-dashboard/internal/logging"
)

// Task is one independent unit of work. Tasks report their own failures.
type Task func(ctx context.Context)

// Pool runs batches of tasks on a fixed number of goroutines.
type Pool struct {
	workerCount int
}

func NewPool(workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{workerCount: workerCount}
}

// Run executes every task and returns once all of them have finished. Tasks
// that have not started when ctx is cancelled are skipped.
func (p *Pool) Run(ctx context.Context, tasks ...Task) {
	if len(tasks) == 0 {
		return
	}

	queue := make(chan Task, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	n := min(p.workerCount, len(tasks))
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker(ctx, i, queue, &wg)
	}
	wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int, queue <-chan Task, wg *sync.WaitGroup) {
	defer wg.Done()
	for task := range queue {
		if ctx.Err() != nil {
			logging.Ctx(ctx).Debug().Int("worker", id).Msg("context done, skipping task")
			continue
		}
		task(ctx)
	}
}
