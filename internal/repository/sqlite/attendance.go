package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
)

const recordColumns = `a.id, a.employee_id, a.work_date, a.leave_type, a.check_in, a.check_out,
	a.worked_hours, a.overtime_hours, a.shortfall_hours, a.meal, a.transport, a.bonus, a.advance,
	a.other_payment, a.other_payment_note, a.other_deduction, a.other_deduction_note, a.note,
	a.created_at, a.updated_at, e.full_name`

const recordFrom = ` FROM attendance_records a LEFT JOIN employees e ON e.id = a.employee_id`

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func scanRecord(row rowScanner) (attendance.Record, error) {
	var (
		rec                  attendance.Record
		workDate             string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&workDate,
		&rec.LeaveType,
		&rec.CheckIn,
		&rec.CheckOut,
		&rec.WorkedHours,
		&rec.OvertimeHours,
		&rec.ShortfallHours,
		&rec.Meal,
		&rec.Transport,
		&rec.Bonus,
		&rec.Advance,
		&rec.OtherPayment,
		&rec.OtherPaymentNote,
		&rec.OtherDeduction,
		&rec.OtherDeductionNote,
		&rec.Note,
		&createdAt,
		&updatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Date, err = attendance.ParseDate(workDate)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid work_date %q: %w", workDate, err)
	}
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

func recordArgs(rec attendance.Record) []any {
	return []any{
		rec.ID,
		rec.EmployeeID,
		formatDate(rec.Date),
		rec.LeaveType,
		rec.CheckIn,
		rec.CheckOut,
		rec.WorkedHours,
		rec.OvertimeHours,
		rec.ShortfallHours,
		rec.Meal,
		rec.Transport,
		rec.Bonus,
		rec.Advance,
		rec.OtherPayment,
		rec.OtherPaymentNote,
		rec.OtherDeduction,
		rec.OtherDeductionNote,
		rec.Note,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	}
}

const insertRecord = `
	INSERT INTO attendance_records (
		id, employee_id, work_date, leave_type, check_in, check_out,
		worked_hours, overtime_hours, shortfall_hours, meal, transport, bonus, advance,
		other_payment, other_payment_note, other_deduction, other_deduction_note, note,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func getRecord(ctx context.Context, q querier, id string) (attendance.Record, error) {
	rec, err := scanRecord(q.QueryRowContext(ctx, `SELECT `+recordColumns+recordFrom+` WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

func mapRecordWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return attendance.ErrAttendanceExists
	case isForeignKeyViolation(err):
		return employee.ErrEmployeeNotFound
	}
	return err
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return getRecord(ctx, r.store.db, id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+recordFrom+` WHERE a.employee_id = ? AND a.work_date = ?`,
		employeeID, formatDate(date),
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.EmployeeID != "" {
		where = append(where, "a.employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		where = append(where, "a.work_date >= ?")
		args = append(args, formatDate(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "a.work_date <= ?")
		args = append(args, formatDate(filter.To))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_records a`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := `SELECT ` + recordColumns + recordFrom + whereClause + ` ORDER BY a.work_date DESC, a.created_at DESC, a.id DESC`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	list := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	var created attendance.Record
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertRecord, recordArgs(rec)...); err != nil {
			return mapRecordWriteError(err)
		}
		var err error
		created, err = getRecord(ctx, tx, rec.ID)
		return err
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	var updated attendance.Record
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE attendance_records
			SET employee_id = ?, work_date = ?, leave_type = ?, check_in = ?, check_out = ?,
				worked_hours = ?, overtime_hours = ?, shortfall_hours = ?, meal = ?, transport = ?,
				bonus = ?, advance = ?, other_payment = ?, other_payment_note = ?, other_deduction = ?,
				other_deduction_note = ?, note = ?, updated_at = ?
			WHERE id = ?`,
			rec.EmployeeID,
			formatDate(rec.Date),
			rec.LeaveType,
			rec.CheckIn,
			rec.CheckOut,
			rec.WorkedHours,
			rec.OvertimeHours,
			rec.ShortfallHours,
			rec.Meal,
			rec.Transport,
			rec.Bonus,
			rec.Advance,
			rec.OtherPayment,
			rec.OtherPaymentNote,
			rec.OtherDeduction,
			rec.OtherDeductionNote,
			rec.Note,
			formatTime(rec.UpdatedAt),
			rec.ID,
		)
		if err != nil {
			return mapRecordWriteError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return attendance.ErrAttendanceNotFound
		}
		updated, err = getRecord(ctx, tx, rec.ID)
		return err
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return updated, nil
}

// UpsertMany implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertMany(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	saved := make([]attendance.Record, 0, len(records))
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		for _, rec := range records {
			var id string
			err := tx.QueryRowContext(ctx, insertRecord+`
				ON CONFLICT (employee_id, work_date) DO UPDATE SET
					leave_type = excluded.leave_type,
					check_in = excluded.check_in,
					check_out = excluded.check_out,
					worked_hours = excluded.worked_hours,
					overtime_hours = excluded.overtime_hours,
					shortfall_hours = excluded.shortfall_hours,
					meal = excluded.meal,
					transport = excluded.transport,
					bonus = excluded.bonus,
					advance = excluded.advance,
					other_payment = excluded.other_payment,
					other_payment_note = excluded.other_payment_note,
					other_deduction = excluded.other_deduction,
					other_deduction_note = excluded.other_deduction_note,
					note = excluded.note,
					updated_at = excluded.updated_at
				RETURNING id`,
				recordArgs(rec)...,
			).Scan(&id)
			if err != nil {
				return mapRecordWriteError(err)
			}
			stored, err := getRecord(ctx, tx, id)
			if err != nil {
				return err
			}
			saved = append(saved, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
