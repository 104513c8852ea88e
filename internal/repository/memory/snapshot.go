package memory

import (
	"context"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
)

type snapshotRepositoryImpl struct {
	store *Store
}

func NewSnapshotRepository(store *Store) backup.SnapshotRepository {
	return &snapshotRepositoryImpl{store: store}
}

// Dump implements backup.SnapshotRepository.
func (r *snapshotRepositoryImpl) Dump(ctx context.Context) (backup.Snapshot, error) {
	var s backup.Snapshot
	r.store.view(func(st *state) {
		s = st.snapshot()
	})
	return s, nil
}

// Restore implements backup.SnapshotRepository.
func (r *snapshotRepositoryImpl) Restore(ctx context.Context, snapshot backup.Snapshot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	next := stateFromSnapshot(snapshot)
	if err := r.store.persist(next); err != nil {
		return err
	}
	r.store.st = next
	// users may have been replaced, drop their sessions
	r.store.tokens = make(map[string]refreshToken)
	return nil
}
