package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
)

const archiveURLExpiry = 24 * time.Hour

type BackupServiceImpl struct {
	snapshotRepo backup.SnapshotRepository
	fileService  file.FileService
	now          func() time.Time
}

func NewBackupService(snapshotRepo backup.SnapshotRepository, fileService file.FileService) backup.BackupService {
	return &BackupServiceImpl{
		snapshotRepo: snapshotRepo,
		fileService:  fileService,
		now:          time.Now,
	}
}

// Export implements backup.BackupService.
func (s *BackupServiceImpl) Export(ctx context.Context) (backup.Document, error) {
	snapshot, err := s.snapshotRepo.Dump(ctx)
	if err != nil {
		return backup.Document{}, fmt.Errorf("failed to dump data: %w", err)
	}
	snapshot.BackupDate = s.now().UTC()
	return backup.NewDocument(snapshot), nil
}

// Archive implements backup.BackupService. A second archive on the same day
// replaces the first.
func (s *BackupServiceImpl) Archive(ctx context.Context) (backup.ArchiveResponse, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return backup.ArchiveResponse{}, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return backup.ArchiveResponse{}, fmt.Errorf("failed to encode backup: %w", err)
	}

	name := backup.FileName(doc.BackupDate)
	key, err := s.fileService.SaveBackup(ctx, name, data)
	if err != nil {
		return backup.ArchiveResponse{}, err
	}

	url, err := s.fileService.GetFileURL(ctx, key, archiveURLExpiry)
	if err != nil {
		slog.Warn("Failed to build backup url", "path", key, "error", err)
	}

	slog.Info("Archived backup",
		"path", key,
		"employees", len(doc.Employees),
		"attendance", len(doc.Attendance),
	)

	return backup.ArchiveResponse{
		Name:       name,
		Path:       key,
		URL:        url,
		BackupDate: doc.BackupDate,
	}, nil
}

// ListArchives implements backup.BackupService.
func (s *BackupServiceImpl) ListArchives(ctx context.Context) ([]backup.ArchiveInfoResponse, error) {
	objects, err := s.fileService.ListBackups(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]backup.ArchiveInfoResponse, 0, len(objects))
	for _, obj := range objects {
		results = append(results, backup.ArchiveInfoResponse{
			Name:       path.Base(obj.Key),
			Size:       obj.Size,
			ModifiedAt: obj.LastModified,
		})
	}
	return results, nil
}

// PruneArchives implements backup.BackupService.
func (s *BackupServiceImpl) PruneArchives(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	objects, err := s.fileService.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(objects) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, obj := range objects[keep:] {
		if err := s.fileService.DeleteFile(ctx, obj.Key); err != nil {
			return deleted, fmt.Errorf("failed to delete backup %s: %w", obj.Key, err)
		}
		deleted++
	}
	return deleted, nil
}

// Restore implements backup.BackupService.
func (s *BackupServiceImpl) Restore(ctx context.Context, doc backup.Document) (backup.RestoreResponse, error) {
	snapshot, err := doc.ToSnapshot()
	if err != nil {
		return backup.RestoreResponse{}, err
	}

	if snapshot.Users == nil {
		current, err := s.snapshotRepo.Dump(ctx)
		if err != nil {
			return backup.RestoreResponse{}, fmt.Errorf("failed to load current users: %w", err)
		}
		snapshot.Users = current.Users
	}

	if err := s.snapshotRepo.Restore(ctx, snapshot); err != nil {
		return backup.RestoreResponse{}, fmt.Errorf("failed to restore backup: %w", err)
	}

	slog.Info("Restored backup",
		"backup_date", doc.BackupDate,
		"employees", len(snapshot.Employees),
		"attendance", len(snapshot.Records),
		"users", len(snapshot.Users),
	)

	return backup.RestoreResponse{
		Employees:  len(snapshot.Employees),
		Attendance: len(snapshot.Records),
		Users:      len(snapshot.Users),
	}, nil
}

// RestoreArchive implements backup.BackupService.
func (s *BackupServiceImpl) RestoreArchive(ctx context.Context, name string) (backup.RestoreResponse, error) {
	rc, err := s.fileService.OpenBackup(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, file.ErrInvalidFileName) {
			return backup.RestoreResponse{}, backup.ErrArchiveNotFound
		}
		return backup.RestoreResponse{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer rc.Close()

	var doc backup.Document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return backup.RestoreResponse{}, fmt.Errorf("%w: %v", backup.ErrInvalidSnapshot, err)
	}

	return s.Restore(ctx, doc)
}
