package backup

import "errors"

var (
	ErrInvalidSnapshot = errors.New("invalid backup file")
	ErrArchiveNotFound = errors.New("backup archive not found")
)
