package backup

import "context"

type SnapshotRepository interface {
	Dump(ctx context.Context) (Snapshot, error)
	// Restore replaces every employee, attendance record and user with the
	// snapshot contents. Either all of it is applied or none.
	Restore(ctx context.Context, snapshot Snapshot) error
}
