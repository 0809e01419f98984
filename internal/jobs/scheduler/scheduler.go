package scheduler

import (
	"context"
	"time"

	"inviteguard/internal/observability"
)

// Job represents a scheduled job
type Job interface {
	// Name returns the job name for logging
	Name() string
	// Run executes the job
	Run(ctx context.Context) error
	// Schedule returns the interval between runs
	Schedule() time.Duration
}

// Scheduler runs registered jobs on their intervals, each in its own
// goroutine, until the context is cancelled.
type Scheduler struct {
	jobs   []Job
	logger *observability.Logger
}

// New creates a new scheduler
func New(logger *observability.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a job to the scheduler
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
	s.logger.Info(context.Background(), "registered scheduled job",
		observability.Field{Key: "job", Value: job.Name()},
		observability.Field{Key: "interval", Value: job.Schedule().String()},
	)
}

// Start begins running all scheduled jobs and blocks until the context is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		go s.runJob(ctx, job)
	}
	<-ctx.Done()
	s.logger.Info(ctx, "scheduler stopped")
	return ctx.Err()
}

// runJob runs a single job on its schedule. Each job runs once at startup.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	jobCtx := observability.WithFields(ctx, observability.Field{Key: "scheduled_job", Value: job.Name()})

	s.executeJob(jobCtx, job)

	ticker := time.NewTicker(job.Schedule())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.executeJob(jobCtx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error(ctx, "scheduled job failed", err,
			observability.Field{Key: "duration", Value: time.Since(start).String()})
		return
	}
	s.logger.Debug(ctx, "scheduled job completed",
		observability.Field{Key: "duration", Value: time.Since(start).String()})
}
