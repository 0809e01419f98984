package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inviteguard/internal/config"
	"inviteguard/internal/observability"
)

// Task is one deferred unit of work.
type Task func(ctx context.Context)

// Queue runs deferred work on a fixed pool of workers over a bounded
// channel. The backpressure policy decides what happens when the channel is
// full: "block" makes Submit wait, "drop_oldest" evicts the oldest pending
// task to make room.
type Queue struct {
	cfg    config.WorkersConfig
	logger *observability.Logger

	tasks    chan Task
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex
	stopped bool
	dropped int64
}

// NewQueue creates a worker queue. Call Start to begin processing.
func NewQueue(cfg config.WorkersConfig, logger *observability.Logger) *Queue {
	return &Queue{
		cfg:    cfg,
		logger: logger,
		tasks:  make(chan Task, cfg.QueueSize),
	}
}

// Start launches the worker pool. Workers exit when the queue is stopped
// and drained, or when the context is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.cfg.EvaluationWorkers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.runTask(ctx, task, id)
		}
	}
}

func (q *Queue) runTask(ctx context.Context, task Task, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error(ctx, "worker recovered from panic", fmt.Errorf("reason: %+v", r),
				observability.Field{Key: "worker_id", Value: workerID})
		}
	}()
	task(ctx)
}

// Submit enqueues a task. With the block policy it waits for room; with
// drop_oldest a full queue evicts the oldest pending task. Returns false
// when the queue has been stopped.
func (q *Queue) Submit(task Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return false
	}

	if q.cfg.Backpressure == "block" {
		q.tasks <- task
		return true
	}

	for {
		select {
		case q.tasks <- task:
			return true
		default:
		}
		select {
		case <-q.tasks:
			q.dropped++
			q.logger.Warn(context.Background(), "evaluation queue full, dropped oldest task",
				observability.Field{Key: "dropped_total", Value: q.dropped})
		default:
		}
	}
}

// Stop closes the queue and waits for in-flight tasks to finish, up to the
// configured drain timeout.
func (q *Queue) Stop() error {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()

	q.stopOnce.Do(func() { close(q.tasks) })

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(q.cfg.DrainTimeout):
		return fmt.Errorf("worker queue drain timed out after %s", q.cfg.DrainTimeout)
	}
}

// Pending reports the number of queued tasks.
func (q *Queue) Pending() int {
	return len(q.tasks)
}
