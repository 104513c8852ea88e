package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
)

type BackupJobs struct {
	backupService backup.BackupService
	interval      time.Duration
	spec          string
	retention     int
}

// NewBackupJobs archives a backup on the cron spec, or every interval when
// spec is empty, and keeps the newest retention archives. A retention of
// zero keeps everything.
func NewBackupJobs(backupService backup.BackupService, spec string, interval time.Duration, retention int) *BackupJobs {
	return &BackupJobs{
		backupService: backupService,
		interval:      interval,
		spec:          spec,
		retention:     retention,
	}
}

func (j *BackupJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     "archive_backup",
		Spec:     j.spec,
		Interval: j.interval,
		Fn:       j.ArchiveBackup,
	})
}

func (j *BackupJobs) ArchiveBackup(ctx context.Context) error {
	archive, err := j.backupService.Archive(ctx)
	if err != nil {
		return err
	}
	slog.Info("Cron: backup archived", "name", archive.Name, "path", archive.Path)

	deleted, err := j.backupService.PruneArchives(ctx, j.retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Cron: pruned old backups", "deleted", deleted, "kept", j.retention)
	}
	return nil
}
