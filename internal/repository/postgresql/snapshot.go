package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type snapshotRepositoryImpl struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) backup.SnapshotRepository {
	return &snapshotRepositoryImpl{db: db}
}

// Dump implements backup.SnapshotRepository.
func (r *snapshotRepositoryImpl) Dump(ctx context.Context) (backup.Snapshot, error) {
	var s backup.Snapshot

	// repeatable read gives the three queries one consistent view
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	s.Employees, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to dump employees: %w", err)
	}

	rows, err = tx.Query(ctx, `SELECT `+recordColumns+recordFrom+` ORDER BY a.work_date DESC, a.created_at DESC, a.id DESC`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	s.Records, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.Record, error) {
		rec, err := scanRecord(row)
		rec.EmployeeName = nil
		return rec, err
	})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to dump attendance: %w", err)
	}

	rows, err = tx.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return backup.Snapshot{}, err
	}
	s.Users, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("failed to dump users: %w", err)
	}

	return s, tx.Commit(ctx)
}

// Restore implements backup.SnapshotRepository. All inserts go out as one
// batch inside a single transaction.
func (r *snapshotRepositoryImpl) Restore(ctx context.Context, snapshot backup.Snapshot) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `TRUNCATE attendance_records, employees, refresh_tokens, users`); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}

		batch := &pgx.Batch{}
		for _, e := range snapshot.Employees {
			batch.Queue(`INSERT INTO employees (`+employeeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				e.ID, e.FullName, e.Phone, e.IBAN, e.BankSalary, e.CashSalary, e.DailyHours,
				e.OvertimeMultiplier, e.AnnualLeaveAllowance, e.CreatedAt, e.UpdatedAt,
			)
		}
		for _, rec := range snapshot.Records {
			batch.Queue(insertRecord, recordArgs(rec)...)
		}
		for _, u := range snapshot.Users {
			batch.Queue(`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
				u.ID, u.Name, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
			)
		}
		if batch.Len() == 0 {
			return nil
		}

		tx := q.(pgx.Tx)
		if err := tx.SendBatch(txCtx, batch).Close(); err != nil {
			return fmt.Errorf("failed to restore snapshot: %w", err)
		}
		return nil
	})
}
