package backup

import "context"

type BackupService interface {
	// Export returns the current data as a backup document.
	Export(ctx context.Context) (Document, error)
	// Archive writes a backup document to file storage.
	Archive(ctx context.Context) (ArchiveResponse, error)
	// ListArchives lists stored backup documents, newest first.
	ListArchives(ctx context.Context) ([]ArchiveInfoResponse, error)
	// PruneArchives deletes all but the newest keep archives.
	PruneArchives(ctx context.Context, keep int) (int, error)
	// Restore validates doc and replaces the current data with it.
	Restore(ctx context.Context, doc Document) (RestoreResponse, error)
	// RestoreArchive restores a stored backup document by file name.
	RestoreArchive(ctx context.Context, name string) (RestoreResponse, error)
}
