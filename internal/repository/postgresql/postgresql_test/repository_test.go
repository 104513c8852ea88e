package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := attendance.ParseDate(s)
	return t
}

func createTestEmployee(t *testing.T, repo employee.EmployeeRepository, id string) employee.Employee {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	e, err := repo.Create(context.Background(), employee.Employee{
		ID:                   id,
		FullName:             "Employee " + id,
		BankSalary:           decimal.NewFromInt(2000),
		CashSalary:           decimal.NewFromInt(1000),
		DailyHours:           decimal.NewFromInt(8),
		OvertimeMultiplier:   decimal.NewFromFloat(1.5),
		AnnualLeaveAllowance: 14,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	require.NoError(t, err)
	return e
}

func createTestRecord(t *testing.T, repo attendance.AttendanceRepository, id, employeeID, date string) attendance.Record {
	t.Helper()
	now := time.Now().UTC()
	rec, err := repo.Create(context.Background(), attendance.Record{
		ID:          id,
		EmployeeID:  employeeID,
		Date:        day(date),
		LeaveType:   attendance.LeaveTypeWorked,
		WorkedHours: decimal.NewFromInt(8),
		Meal:        decimal.RequireFromString("12.50"),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return rec
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	created := createTestEmployee(t, repo, "e1")
	assert.True(t, decimal.NewFromInt(3000).Equal(created.TotalSalary()))

	_, err := repo.Create(ctx, created)
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	created.FullName = "Renamed"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)

	require.NoError(t, repo.Delete(ctx, "e1"))
	_, err = repo.GetByID(ctx, "e1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_ListAndUpsert(t *testing.T) {
	setup := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	records := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	createTestEmployee(t, employees, "e1")
	first := createTestRecord(t, records, "r1", "e1", "2024-03-01")
	require.NotNil(t, first.EmployeeName)
	assert.True(t, decimal.RequireFromString("12.50").Equal(first.Meal))
	createTestRecord(t, records, "r2", "e1", "2024-03-05")

	_, err := records.Create(ctx, attendance.Record{ID: "r3", EmployeeID: "e1", Date: day("2024-03-01"), LeaveType: attendance.LeaveTypeAbsent})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	list, total, err := records.List(ctx, attendance.RecordFilter{EmployeeID: "e1", From: day("2024-03-01"), To: day("2024-03-31")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)

	now := time.Now().UTC()
	saved, err := records.UpsertMany(ctx, []attendance.Record{
		{ID: "n1", EmployeeID: "e1", Date: day("2024-03-01"), LeaveType: attendance.LeaveTypeSickLeave, CreatedAt: now, UpdatedAt: now},
		{ID: "n2", EmployeeID: "e1", Date: day("2024-03-02"), LeaveType: attendance.LeaveTypeSickLeave, CreatedAt: now, UpdatedAt: now},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "r1", saved[0].ID)
	assert.Equal(t, "n2", saved[1].ID)

	require.NoError(t, employees.Delete(ctx, "e1"))
	_, total, err = records.List(ctx, attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSnapshotRepository_Restore(t *testing.T) {
	setup := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	records := postgresql.NewAttendanceRepository(setup.DB)
	snapshots := postgresql.NewSnapshotRepository(setup.DB)
	ctx := context.Background()

	createTestEmployee(t, employees, "e1")
	createTestRecord(t, records, "r1", "e1", "2024-03-01")

	snapshot, err := snapshots.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)

	createTestEmployee(t, employees, "e2")
	require.NoError(t, snapshots.Restore(ctx, snapshot))

	list, err := employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e1", list[0].ID)
}

func TestUserAndJWTRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	users := postgresql.NewUserRepository(setup.DB)
	tokens := postgresql.NewJWTRepository(setup.DB)
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := users.Create(ctx, user.User{ID: "u1", Name: "Admin", Username: "admin", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.User{ID: "u2", Name: "Admin", Username: "admin", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	require.NoError(t, tokens.CreateRefreshToken(ctx, "u1", "token", now.Add(time.Hour).Unix(), auth.SessionTrackingRequest{}))
	userID, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "token"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "token")
	require.NoError(t, err)
	assert.True(t, revoked)
}
