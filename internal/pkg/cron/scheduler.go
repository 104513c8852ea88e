package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job. Spec is a standard five-field cron
// expression or descriptor ("@daily"); when empty the job runs every Interval.
type Job struct {
	Name       string
	Spec       string
	Interval   time.Duration
	RunOnStart bool
	Fn         func(ctx context.Context) error
}

type scheduledJob struct {
	Job
	schedule cron.Schedule
}

// Scheduler runs jobs on cron schedules until stopped
type Scheduler struct {
	cron    *cron.Cron
	jobs    []scheduledJob
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a new cron scheduler. A run that is still going when
// its next tick comes is not started twice.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs: make([]scheduledJob, 0),
	}
}

// AddJob registers a job. A job with neither a spec nor a positive interval
// is disabled.
func (s *Scheduler) AddJob(job Job) error {
	spec := job.Spec
	if spec == "" {
		if job.Interval <= 0 {
			slog.Info("Cron job disabled", "name", job.Name)
			return nil
		}
		spec = "@every " + job.Interval.String()
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, scheduledJob{Job: job, schedule: schedule})
	slog.Info("Cron job registered", "name", job.Name, "schedule", spec)
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name)
	}
	return names
}

// Start schedules every job until ctx is done or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		job := job
		s.cron.Schedule(job.schedule, cron.FuncJob(func() {
			s.executeJob(ctx, job.Job)
		}))
		if job.RunOnStart {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.executeJob(ctx, job.Job)
			}()
		}
	}
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	slog.Info("Stopping cron scheduler...")
	cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// NextRun reports when the named job fires next after t.
func (s *Scheduler) NextRun(name string, t time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if job.Name == name {
			return job.schedule.Next(t), true
		}
	}
	return time.Time{}, false
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once in registration order and joins their errors
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]scheduledJob(nil), s.jobs...)
	s.mu.Unlock()

	var errs []error
	for _, job := range jobs {
		if err := job.Fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errors.Join(errs...)
}
