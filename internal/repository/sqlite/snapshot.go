package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
)

type snapshotRepositoryImpl struct {
	store *Store
}

func NewSnapshotRepository(store *Store) backup.SnapshotRepository {
	return &snapshotRepositoryImpl{store: store}
}

// Dump implements backup.SnapshotRepository. It reads inside one transaction
// so the three tables are consistent with each other.
func (r *snapshotRepositoryImpl) Dump(ctx context.Context) (backup.Snapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tx, err := r.store.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	s := backup.Snapshot{
		Employees: make([]employee.Employee, 0),
		Records:   make([]attendance.Record, 0),
		Users:     make([]user.User, 0),
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			rows.Close()
			return backup.Snapshot{}, err
		}
		s.Employees = append(s.Employees, e)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT `+recordColumns+recordFrom+` ORDER BY a.work_date DESC, a.created_at DESC, a.id DESC`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return backup.Snapshot{}, err
		}
		rec.EmployeeName = nil
		s.Records = append(s.Records, rec)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return backup.Snapshot{}, err
		}
		s.Users = append(s.Users, u)
	}
	rows.Close()

	return s, tx.Commit()
}

// Restore implements backup.SnapshotRepository.
func (r *snapshotRepositoryImpl) Restore(ctx context.Context, snapshot backup.Snapshot) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"attendance_records", "employees", "refresh_tokens", "users"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, e := range snapshot.Employees {
			if err := insertEmployee(ctx, tx, e); err != nil {
				return fmt.Errorf("failed to restore employee %s: %w", e.ID, err)
			}
		}
		for _, rec := range snapshot.Records {
			if _, err := tx.ExecContext(ctx, insertRecord, recordArgs(rec)...); err != nil {
				return fmt.Errorf("failed to restore attendance %s: %w", rec.ID, err)
			}
		}
		for _, u := range snapshot.Users {
			if err := insertUser(ctx, tx, u); err != nil {
				return fmt.Errorf("failed to restore user %s: %w", u.Username, err)
			}
		}
		return nil
	})
}
