package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	payrollservice "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	calculator     *payrollservice.Calculator
	now            func() time.Time
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	calculator *payrollservice.Calculator,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		calculator:     calculator,
		now:            time.Now,
	}
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *DashboardServiceImpl) parseMonth(month string) (payroll.Period, error) {
	if month == "" {
		return payroll.PeriodOf(s.now()), nil
	}
	return payroll.ParsePeriod(month)
}

// GetDashboard loads employees and the month's records in parallel and
// folds them into the headline figures. PeriodPayroll is the sum of the
// month's daily totals.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, month string) (dashboard.DashboardResponse, error) {
	period, err := s.parseMonth(month)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}

	var (
		employees []employee.Employee
		records   []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employees with pay configuration
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		employees = list
		return nil
	})

	// 2. Records of the month
	g.Go(func() error {
		list, err := payrollservice.ListPeriodRecords(gCtx, s.attendanceRepo, "", period)
		if err != nil {
			return err
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	resp := dashboard.DashboardResponse{
		Period:             period.String(),
		PeriodLabel:        period.Label(),
		TotalEmployees:     len(employees),
		TotalMonthlySalary: decimal.Zero,
		PeriodPayroll:      decimal.Zero,
		RecordCount:        len(records),
		OvertimeHours:      decimal.Zero,
	}

	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
		resp.TotalMonthlySalary = resp.TotalMonthlySalary.Add(emp.TotalSalary())
	}

	for _, rec := range records {
		switch rec.LeaveType {
		case attendance.LeaveTypeWorked:
			resp.Leave.Worked++
			resp.OvertimeHours = resp.OvertimeHours.Add(rec.OvertimeHours)
		case attendance.LeaveTypeAnnualLeave:
			resp.Leave.AnnualLeave++
		case attendance.LeaveTypeSickLeave:
			resp.Leave.SickLeave++
		case attendance.LeaveTypeUnpaidLeave:
			resp.Leave.UnpaidLeave++
		case attendance.LeaveTypeAbsent:
			resp.Leave.Absent++
		}

		// records of deleted employees do not count towards the payroll
		emp, ok := byID[rec.EmployeeID]
		if !ok {
			continue
		}
		resp.PeriodPayroll = resp.PeriodPayroll.Add(s.calculator.ComputeDay(emp, rec).DailyTotal)
	}

	resp.TotalMonthlySalary = resp.TotalMonthlySalary.Round(2)
	resp.PeriodPayroll = resp.PeriodPayroll.Round(2)
	resp.OvertimeHours = resp.OvertimeHours.Round(2)

	return resp, nil
}
