package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `a.id, a.employee_id, a.work_date, a.leave_type, a.check_in, a.check_out,
	a.worked_hours, a.overtime_hours, a.shortfall_hours, a.meal, a.transport, a.bonus, a.advance,
	a.other_payment, a.other_payment_note, a.other_deduction, a.other_deduction_note, a.note,
	a.created_at, a.updated_at, e.full_name`

const recordFrom = ` FROM attendance_records a LEFT JOIN employees e ON e.id = a.employee_id`

const insertRecord = `
	INSERT INTO attendance_records (
		id, employee_id, work_date, leave_type, check_in, check_out,
		worked_hours, overtime_hours, shortfall_hours, meal, transport, bonus, advance,
		other_payment, other_payment_note, other_deduction, other_deduction_note, note,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.Date,
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
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Date = attendance.NormalizeDate(rec.Date)
	return rec, nil
}

func recordArgs(rec attendance.Record) []any {
	return []any{
		rec.ID,
		rec.EmployeeID,
		attendance.NormalizeDate(rec.Date),
		string(rec.LeaveType),
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
		rec.CreatedAt,
		rec.UpdatedAt,
	}
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

func (a *attendanceRepository) getOne(ctx context.Context, where string, args ...any) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+recordColumns+recordFrom+` WHERE `+where, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	return a.getOne(ctx, `a.id = $1`, id)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	return a.getOne(ctx, `a.employee_id = $1 AND a.work_date = $2`, employeeID, attendance.NormalizeDate(date))
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	var (
		where []string
		args  []any
	)
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where = append(where, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, attendance.NormalizeDate(filter.From))
		where = append(where, fmt.Sprintf("a.work_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, attendance.NormalizeDate(filter.To))
		where = append(where, fmt.Sprintf("a.work_date <= $%d", len(args)))
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records a`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := `SELECT ` + recordColumns + recordFrom + whereClause + ` ORDER BY a.work_date DESC, a.created_at DESC, a.id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, insertRecord, recordArgs(rec)...); err != nil {
		return attendance.Record{}, mapRecordWriteError(err)
	}
	return a.GetByID(ctx, rec.ID)
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET employee_id = $1, work_date = $2, leave_type = $3, check_in = $4, check_out = $5,
			worked_hours = $6, overtime_hours = $7, shortfall_hours = $8, meal = $9, transport = $10,
			bonus = $11, advance = $12, other_payment = $13, other_payment_note = $14,
			other_deduction = $15, other_deduction_note = $16, note = $17, updated_at = $18
		WHERE id = $19
	`
	tag, err := q.Exec(ctx, query,
		rec.EmployeeID,
		attendance.NormalizeDate(rec.Date),
		string(rec.LeaveType),
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
		rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		return attendance.Record{}, mapRecordWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return a.GetByID(ctx, rec.ID)
}

// UpsertMany implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpsertMany(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	query := insertRecord + `
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			leave_type = EXCLUDED.leave_type,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			worked_hours = EXCLUDED.worked_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			shortfall_hours = EXCLUDED.shortfall_hours,
			meal = EXCLUDED.meal,
			transport = EXCLUDED.transport,
			bonus = EXCLUDED.bonus,
			advance = EXCLUDED.advance,
			other_payment = EXCLUDED.other_payment,
			other_payment_note = EXCLUDED.other_payment_note,
			other_deduction = EXCLUDED.other_deduction,
			other_deduction_note = EXCLUDED.other_deduction_note,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	saved := make([]attendance.Record, 0, len(records))
	err := WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, a.db)
		for _, rec := range records {
			var id string
			if err := q.QueryRow(txCtx, query, recordArgs(rec)...).Scan(&id); err != nil {
				return mapRecordWriteError(err)
			}
			stored, err := a.GetByID(txCtx, id)
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
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
