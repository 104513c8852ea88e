package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
)

type SessionJobs struct {
	authService auth.AuthService
}

func NewSessionJobs(authService auth.AuthService) *SessionJobs {
	return &SessionJobs{authService: authService}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     "purge_expired_sessions",
		Interval: 1 * time.Hour,
		Fn:       j.PurgeExpiredSessions,
	})
}

func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	deleted, err := j.authService.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: purged expired refresh tokens", "count", deleted)
	}
	return nil
}
