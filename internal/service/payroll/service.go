package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
)

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	calculator     *Calculator
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	calculator *Calculator,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		calculator:     calculator,
	}
}

// ListPeriodRecords returns every record dated inside the period, unpaginated.
func ListPeriodRecords(ctx context.Context, repo attendance.AttendanceRepository, employeeID string, period payroll.Period) ([]attendance.Record, error) {
	records, _, err := repo.List(ctx, attendance.RecordFilter{
		EmployeeID: employeeID,
		From:       period.Start(),
		To:         period.End(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", period, err)
	}
	return records, nil
}

// Statement computes the raw statement of one employee.
func (s *PayrollServiceImpl) Statement(ctx context.Context, employeeID string, periodStr string) (payroll.Statement, error) {
	period, err := payroll.ParsePeriod(periodStr)
	if err != nil {
		return payroll.Statement{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.Statement{}, employee.ErrEmployeeNotFound
		}
		return payroll.Statement{}, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := ListPeriodRecords(ctx, s.attendanceRepo, emp.ID, period)
	if err != nil {
		return payroll.Statement{}, err
	}

	return s.calculator.ComputeStatement(emp, records, period)
}

// GetStatement implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetStatement(ctx context.Context, employeeID string, period string) (payroll.StatementResponse, error) {
	stmt, err := s.Statement(ctx, employeeID, period)
	if err != nil {
		return payroll.StatementResponse{}, err
	}
	return payroll.NewStatementResponse(stmt), nil
}

// ListStatements implements payroll.PayrollService. Employees without
// records in the period are left out.
func (s *PayrollServiceImpl) ListStatements(ctx context.Context, periodStr string) ([]payroll.StatementResponse, error) {
	period, err := payroll.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := ListPeriodRecords(ctx, s.attendanceRepo, "", period)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]attendance.Record, len(employees))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	results := make([]payroll.StatementResponse, 0, len(employees))
	for _, emp := range employees {
		stmt, err := s.calculator.ComputeStatement(emp, byEmployee[emp.ID], period)
		if err != nil {
			if errors.Is(err, payroll.ErrNoAttendanceData) {
				continue
			}
			return nil, fmt.Errorf("failed to compute statement for %s: %w", emp.ID, err)
		}
		results = append(results, payroll.NewStatementResponse(stmt))
	}

	return results, nil
}
