package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means no limit beyond shutdown.
	Timeout    time.Duration
	RunOnStart bool
	Fn         func(ctx context.Context) error
}

// JobOption customises a job at registration.
type JobOption func(*Job)

// WithTimeout cancels a run that takes longer than d.
func WithTimeout(d time.Duration) JobOption {
	return func(j *Job) { j.Timeout = d }
}

// WithRunOnStart runs the job once as soon as the scheduler starts.
func WithRunOnStart() JobOption {
	return func(j *Job) { j.RunOnStart = true }
}

// Scheduler runs jobs on fixed intervals. Runs of one job never overlap.
type Scheduler struct {
	jobs    []Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		jobs: make([]Job, 0),
	}
}

// AddJob adds a job to the scheduler. Jobs added after Start are ignored.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error, opts ...JobOption) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Warn("Cron job registered after start, ignoring", "name", name)
		return
	}

	job := Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	}
	for _, opt := range opts {
		opt(&job)
	}
	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			slog.Warn("Cron job has no interval, skipping", "name", job.Name)
			continue
		}
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	slog.Info("Stopping cron scheduler...")
	cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.RunOnStart {
		s.executeJob(ctx, job)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}
