package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
)

var ErrInvalidFileName = errors.New("invalid file name")

const (
	backupDir = "backups"
	exportDir = "exports"
)

type FileService interface {
	// SaveBackup stores a JSON backup document under backups/
	SaveBackup(ctx context.Context, filename string, data []byte) (string, error)

	// SaveExport stores a generated workbook under exports/
	SaveExport(ctx context.Context, filename string, data []byte) (string, error)

	// ListBackups returns stored backups newest first
	ListBackups(ctx context.Context) ([]storage.Object, error)

	// OpenBackup opens a stored backup by file name
	OpenBackup(ctx context.Context, filename string) (io.ReadCloser, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// checkName rejects names with directories or an unexpected extension.
func checkName(filename string, allowedExts ...string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExts {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: only %s allowed", ErrInvalidFileName, strings.Join(allowedExts, ", "))
}

// SaveBackup uploads a backup document
func (s *fileServiceImpl) SaveBackup(ctx context.Context, filename string, data []byte) (string, error) {
	if err := checkName(filename, ".json"); err != nil {
		return "", err
	}

	key, err := s.storage.Upload(ctx, bytes.NewReader(data), path.Join(backupDir, filename), "application/json")
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	return key, nil
}

// SaveExport uploads a generated workbook
func (s *fileServiceImpl) SaveExport(ctx context.Context, filename string, data []byte) (string, error) {
	if err := checkName(filename, ".xlsx"); err != nil {
		return "", err
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	key, err := s.storage.Upload(ctx, bytes.NewReader(data), path.Join(exportDir, filename), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	return key, nil
}

func (s *fileServiceImpl) ListBackups(ctx context.Context) ([]storage.Object, error) {
	objects, err := s.storage.List(ctx, backupDir+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := objects[:0]
	for _, obj := range objects {
		if strings.EqualFold(path.Ext(obj.Key), ".json") {
			backups = append(backups, obj)
		}
	}
	return backups, nil
}

func (s *fileServiceImpl) OpenBackup(ctx context.Context, filename string) (io.ReadCloser, error) {
	if err := checkName(filename, ".json"); err != nil {
		return nil, err
	}
	return s.storage.Download(ctx, path.Join(backupDir, filename))
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}
