package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	payrollservice "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	calculator     *payrollservice.Calculator
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	calculator *payrollservice.Calculator,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		calculator:     calculator,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) getEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// toResponse attaches the employee name and the priced day.
func (s *AttendanceServiceImpl) toResponse(emp employee.Employee, rec attendance.Record) attendance.AttendanceResponse {
	name := emp.FullName
	rec.EmployeeName = &name
	resp := attendance.NewAttendanceResponse(rec)
	resp.Pay = payroll.NewDayPay(s.calculator.ComputeDay(emp, rec))
	return resp
}

func newRecordID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate attendance id: %w", err)
	}
	return id.String(), nil
}

// Create implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := attendance.ParseDate(req.Date)

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec := req.ToRecord(emp.ID, date)
	rec.Recompute(emp.ContractedHours())
	now := s.now().UTC()
	rec.UpdatedAt = now

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, rec.Date)
	switch {
	case err == nil:
		if !req.Overwrite {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
		}
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		saved, err := s.attendanceRepo.Update(ctx, rec)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to overwrite attendance: %w", err)
		}
		slog.Info("Overwrote attendance", "attendance_id", saved.ID, "employee_id", emp.ID, "date", req.Date)
		return s.toResponse(emp, saved), nil
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}

	rec.ID, err = newRecordID()
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	rec.CreatedAt = now

	created, err := s.attendanceRepo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceExists) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return s.toResponse(emp, created), nil
}

// CreateRange implements attendance.AttendanceService. Existing records in
// the range are replaced.
func (s *AttendanceServiceImpl) CreateRange(ctx context.Context, req attendance.CreateAttendanceRangeRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, _ := attendance.ParseDate(req.StartDate)
	end, _ := attendance.ParseDate(req.EndDate)
	dates, err := attendance.DateRange(start, end)
	if err != nil {
		return nil, err
	}

	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	records := make([]attendance.Record, 0, len(dates))
	for _, date := range dates {
		rec := req.ToRecord(emp.ID, date)
		rec.Recompute(emp.ContractedHours())
		rec.ID, err = newRecordID()
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = now
		rec.UpdatedAt = now
		records = append(records, rec)
	}

	saved, err := s.attendanceRepo.UpsertMany(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save attendance range: %w", err)
	}

	slog.Info("Saved attendance range",
		"employee_id", emp.ID,
		"start_date", req.StartDate,
		"end_date", req.EndDate,
		"days", len(saved),
	)

	results := make([]attendance.AttendanceResponse, 0, len(saved))
	for _, rec := range saved {
		results = append(results, s.toResponse(emp, rec))
	}
	return results, nil
}

// GetByID implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	emp, err := s.getEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return s.toResponse(emp, rec), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter.ToRecordFilter())
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		emp, ok := byID[rec.EmployeeID]
		if !ok {
			// orphaned rows are listed without pay
			items = append(items, attendance.NewAttendanceResponse(rec))
			continue
		}
		items = append(items, s.toResponse(emp, rec))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return attendance.ListAttendanceResponse{
		Items:      items,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	emp, err := s.getEmployee(ctx, existing.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec := req.Apply(existing)
	if !rec.Date.Equal(existing.Date) {
		other, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, rec.EmployeeID, rec.Date)
		if err == nil && other.ID != rec.ID {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
		}
		if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
		}
	}
	rec.Recompute(emp.ContractedHours())
	rec.UpdatedAt = s.now().UTC()

	saved, err := s.attendanceRepo.Update(ctx, rec)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		case errors.Is(err, attendance.ErrAttendanceExists):
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.toResponse(emp, saved), nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}
