package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
)

const employeeColumns = `id, full_name, phone, iban, bank_salary, cash_salary, daily_hours,
	overtime_multiplier, annual_leave_allowance, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		createdAt, updatedAt string
	)
	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.Phone,
		&e.IBAN,
		&e.BankSalary,
		&e.CashSalary,
		&e.DailyHours,
		&e.OvertimeMultiplier,
		&e.AnnualLeaveAllowance,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

func insertEmployee(ctx context.Context, q querier, e employee.Employee) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.FullName,
		e.Phone,
		e.IBAN,
		e.BankSalary,
		e.CashSalary,
		e.DailyHours,
		e.OvertimeMultiplier,
		e.AnnualLeaveAllowance,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	return err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := insertEmployee(ctx, r.store.db, newEmployee); err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row := r.store.db.QueryRowContext(ctx, `
		UPDATE employees
		SET full_name = ?, phone = ?, iban = ?, bank_salary = ?, cash_salary = ?, daily_hours = ?,
			overtime_multiplier = ?, annual_leave_allowance = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+employeeColumns,
		e.FullName,
		e.Phone,
		e.IBAN,
		e.BankSalary,
		e.CashSalary,
		e.DailyHours,
		e.OvertimeMultiplier,
		e.AnnualLeaveAllowance,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository. Attendance rows go with the
// employee through the foreign key cascade.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result, err := r.store.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
