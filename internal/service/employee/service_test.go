package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employeeFixture struct {
	service        *EmployeeServiceImpl
	attendanceRepo attendance.AttendanceRepository
}

func newEmployeeFixture(t *testing.T) employeeFixture {
	t.Helper()

	store, err := memory.Open("")
	require.NoError(t, err)

	svc := NewEmployeeService(memory.NewEmployeeRepository(store)).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) }

	return employeeFixture{
		service:        svc,
		attendanceRepo: memory.NewAttendanceRepository(store),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func TestEmployeeService_Create_AppliesDefaults(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.service.Create(context.Background(), employee.CreateEmployeeRequest{
		FullName:   "Ayşe Yılmaz",
		Phone:      strPtr("05321234567"),
		BankSalary: dec("20000"),
		CashSalary: dec("10000"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ayşe Yılmaz", created.FullName)
	assert.True(t, dec("30000").Equal(created.TotalSalary))
	assert.True(t, employee.DefaultDailyHours.Equal(created.DailyHours))
	assert.True(t, employee.DefaultOvertimeMultiplier.Equal(created.OvertimeMultiplier))
	assert.Equal(t, employee.DefaultAnnualLeaveAllowance, created.AnnualLeaveAllowance)
	assert.Equal(t, time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC), created.CreatedAt)
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	f := newEmployeeFixture(t)

	tests := []struct {
		name  string
		req   employee.CreateEmployeeRequest
		field string
	}{
		{
			name:  "missing name",
			req:   employee.CreateEmployeeRequest{BankSalary: dec("100")},
			field: "full_name",
		},
		{
			name:  "negative salary",
			req:   employee.CreateEmployeeRequest{FullName: "Ali", CashSalary: dec("-1")},
			field: "cash_salary",
		},
		{
			name: "zero daily hours",
			req: employee.CreateEmployeeRequest{
				FullName:   "Ali",
				DailyHours: func() *decimal.Decimal { d := decimal.Zero; return &d }(),
			},
			field: "daily_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tt.req)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestEmployeeService_UpdateAndList(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	first, err := f.service.Create(ctx, employee.CreateEmployeeRequest{FullName: "Zeynep Kaya", BankSalary: dec("15000")})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, employee.CreateEmployeeRequest{FullName: "Ahmet Demir", BankSalary: dec("12000")})
	require.NoError(t, err)

	bank := dec("16000")
	updated, err := f.service.Update(ctx, employee.UpdateEmployeeRequest{ID: first.ID, BankSalary: &bank})
	require.NoError(t, err)
	assert.Equal(t, "Zeynep Kaya", updated.FullName, "omitted fields are kept")
	assert.True(t, dec("16000").Equal(updated.TotalSalary))

	list, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ahmet Demir", list[0].FullName)
	assert.Equal(t, "Zeynep Kaya", list[1].FullName)
}

func TestEmployeeService_NotFound(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	name := "Nobody"
	_, err = f.service.Update(ctx, employee.UpdateEmployeeRequest{ID: "missing", FullName: &name})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.ErrorIs(t, f.service.Delete(ctx, "missing"), employee.ErrEmployeeNotFound)
}

func TestEmployeeService_Delete_RemovesAttendance(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	emp, err := f.service.Create(ctx, employee.CreateEmployeeRequest{FullName: "Ayşe Yılmaz", BankSalary: dec("30000")})
	require.NoError(t, err)

	_, err = f.attendanceRepo.Create(ctx, attendance.Record{
		ID:         "rec-1",
		EmployeeID: emp.ID,
		Date:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		LeaveType:  attendance.LeaveTypeWorked,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, emp.ID))

	_, err = f.service.GetByID(ctx, emp.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, total, err := f.attendanceRepo.List(ctx, attendance.RecordFilter{EmployeeID: emp.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}
