package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/memory"
	payrollservice "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "emp-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func newTestService(t *testing.T) *AttendanceServiceImpl {
	t.Helper()

	store, err := memory.Open("")
	require.NoError(t, err)

	employeeRepo := memory.NewEmployeeRepository(store)
	_, err = employeeRepo.Create(context.Background(), employee.Employee{
		ID:                 testEmployeeID,
		FullName:           "Ayşe Yılmaz",
		BankSalary:         dec("20000"),
		CashSalary:         dec("10000"),
		DailyHours:         dec("8"),
		OvertimeMultiplier: dec("1.5"),
	})
	require.NoError(t, err)

	svc := NewAttendanceService(
		memory.NewAttendanceRepository(store),
		employeeRepo,
		payrollservice.NewCalculator(),
	).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func workedDay(date, in, out string) attendance.CreateAttendanceRequest {
	return attendance.CreateAttendanceRequest{
		EmployeeID: testEmployeeID,
		Date:       date,
		DayEntry: attendance.DayEntry{
			LeaveType: string(attendance.LeaveTypeWorked),
			CheckIn:   strPtr(in),
			CheckOut:  strPtr(out),
		},
	}
}

func TestAttendanceService_Create_PricesTheDay(t *testing.T) {
	svc := newTestService(t)

	req := workedDay("2025-04-01", "08:00", "18:00")
	req.Meal = dec("150")

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-04-01", created.Date)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "Ayşe Yılmaz", *created.EmployeeName)
	assertMoney(t, "10", created.WorkedHours, "worked hours")
	assertMoney(t, "2", created.OvertimeHours, "overtime hours")
	assertMoney(t, "0", created.ShortfallHours, "shortfall hours")

	require.NotNil(t, created.Pay)
	assertMoney(t, "1000", created.Pay.DailyRate, "daily rate")
	assertMoney(t, "125", created.Pay.HourlyRate, "hourly rate")
	assertMoney(t, "375", created.Pay.OvertimePay, "overtime pay")
	assertMoney(t, "1375", created.Pay.NetWorkPay, "net work pay")
	assertMoney(t, "1525", created.Pay.DailyTotal, "daily total")
}

func TestAttendanceService_Create_Shortfall(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), workedDay("2025-04-01", "09:00", "15:00"))
	require.NoError(t, err)

	assertMoney(t, "6", created.WorkedHours, "worked hours")
	assertMoney(t, "2", created.ShortfallHours, "shortfall hours")
	require.NotNil(t, created.Pay)
	assertMoney(t, "250", created.Pay.ShortfallDeduction, "shortfall deduction")
	assertMoney(t, "750", created.Pay.DailyTotal, "daily total")
}

func TestAttendanceService_Create_ExistingDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, workedDay("2025-04-01", "08:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, workedDay("2025-04-01", "08:00", "18:00"))
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	req := workedDay("2025-04-01", "08:00", "18:00")
	req.Overwrite = true
	replaced, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replaced.ID)
	assertMoney(t, "2", replaced.OvertimeHours, "overtime hours")
}

func TestAttendanceService_Create_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := workedDay("2025-04-01", "08:00", "18:00")
	req.EmployeeID = "missing"
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.Create(ctx, workedDay("2025-04-01", "25:00", "18:00"))
	assert.Error(t, err)

	_, err = svc.Create(ctx, workedDay("01.04.2025", "08:00", "18:00"))
	assert.Error(t, err)
}

func TestAttendanceService_CreateRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	existing, err := svc.Create(ctx, workedDay("2025-04-02", "08:00", "17:00"))
	require.NoError(t, err)

	saved, err := svc.CreateRange(ctx, attendance.CreateAttendanceRangeRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-04-01",
		EndDate:    "2025-04-03",
		DayEntry:   attendance.DayEntry{LeaveType: string(attendance.LeaveTypeAnnualLeave)},
	})
	require.NoError(t, err)
	require.Len(t, saved, 3)

	assert.Equal(t, "2025-04-01", saved[0].Date)
	assert.Equal(t, "2025-04-03", saved[2].Date)
	assert.Equal(t, existing.ID, saved[1].ID, "a day already on file is replaced in place")
	for _, item := range saved {
		assert.Equal(t, attendance.LeaveTypeAnnualLeave, item.LeaveType)
		require.NotNil(t, item.Pay)
		assertMoney(t, "1000", item.Pay.DailyTotal, "paid leave total")
	}

	_, err = svc.CreateRange(ctx, attendance.CreateAttendanceRangeRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2025-04-05",
		EndDate:    "2025-04-01",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)
}

func TestAttendanceService_List(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, day := range []string{"2025-03-31", "2025-04-01", "2025-04-02", "2025-04-03"} {
		_, err := svc.Create(ctx, workedDay(day, "08:00", "16:00"))
		require.NoError(t, err)
	}

	month := "2025-04"
	result, err := svc.List(ctx, attendance.AttendanceFilter{Month: &month, Limit: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 3, result.TotalItems)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "2025-04-03", result.Items[0].Date, "newest first")
	require.NotNil(t, result.Items[0].Pay)
	assertMoney(t, "1000", result.Items[0].Pay.DailyTotal, "daily total")

	_, err = svc.List(ctx, attendance.AttendanceFilter{Page: -1})
	assert.Error(t, err)
}

func TestAttendanceService_Update(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, workedDay("2025-04-01", "08:00", "16:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, workedDay("2025-04-02", "08:00", "16:00"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, attendance.UpdateAttendanceRequest{
		ID:       first.ID,
		CheckOut: strPtr("19:00"),
		Bonus:    func() *decimal.Decimal { d := dec("100"); return &d }(),
	})
	require.NoError(t, err)
	assertMoney(t, "3", updated.OvertimeHours, "hours are recomputed")
	require.NotNil(t, updated.Pay)
	assertMoney(t, "1662.5", updated.Pay.DailyTotal, "daily total")

	_, err = svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: first.ID, Date: strPtr("2025-04-02")})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	moved, err := svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: first.ID, Date: strPtr("2025-04-05")})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-05", moved.Date)

	_, err = svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: "missing", Note: strPtr("x")})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, workedDay("2025-04-01", "08:00", "16:00"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
}
