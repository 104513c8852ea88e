package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDateRange(t *testing.T) {
	t.Run("inclusive across month end", func(t *testing.T) {
		days, err := DateRange(day("2025-01-30"), day("2025-02-02"))
		require.NoError(t, err)
		require.Len(t, days, 4)
		assert.Equal(t, "2025-01-30", days[0].Format(DateLayout))
		assert.Equal(t, "2025-02-02", days[3].Format(DateLayout))
	})

	t.Run("single day", func(t *testing.T) {
		days, err := DateRange(day("2025-03-10"), day("2025-03-10"))
		require.NoError(t, err)
		assert.Len(t, days, 1)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := DateRange(day("2025-03-10"), day("2025-03-09"))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := DateRange(day("2024-01-01"), day("2025-06-01"))
		assert.ErrorIs(t, err, ErrDateRangeTooLong)
	})

	t.Run("clock part ignored", func(t *testing.T) {
		start := time.Date(2025, 5, 1, 23, 30, 0, 0, time.UTC)
		end := time.Date(2025, 5, 2, 1, 0, 0, 0, time.UTC)
		days, err := DateRange(start, end)
		require.NoError(t, err)
		assert.Len(t, days, 2)
	})
}

func TestCreateAttendanceRequest_Validate(t *testing.T) {
	t.Run("valid worked day defaults leave type", func(t *testing.T) {
		req := CreateAttendanceRequest{
			EmployeeID: "emp-1",
			Date:       "2025-04-01",
			DayEntry:   DayEntry{CheckIn: ptr("08:00"), CheckOut: ptr("17:00")},
		}
		require.NoError(t, req.Validate())

		rec := req.ToRecord(req.EmployeeID, day(req.Date))
		assert.Equal(t, LeaveTypeWorked, rec.LeaveType)
	})

	t.Run("collects field errors", func(t *testing.T) {
		req := CreateAttendanceRequest{
			Date: "01-04-2025",
			DayEntry: DayEntry{
				LeaveType: "holiday",
				CheckIn:   ptr("25:00"),
				Meal:      decimal.NewFromInt(-5),
			},
		}
		err := req.Validate()
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		m := verrs.ToMap()
		assert.Contains(t, m, "employee_id")
		assert.Contains(t, m, "date")
		assert.Contains(t, m, "leave_type")
		assert.Contains(t, m, "check_in")
		assert.Contains(t, m, "meal")
	})
}

func TestAttendanceFilter_ToRecordFilter(t *testing.T) {
	month := "2025-02"
	emp := "emp-1"
	f := AttendanceFilter{EmployeeID: &emp, Month: &month, Page: 2, Limit: 10}
	require.NoError(t, f.Validate())

	rf := f.ToRecordFilter()
	assert.Equal(t, "emp-1", rf.EmployeeID)
	assert.Equal(t, "2025-02-01", rf.From.Format(DateLayout))
	assert.Equal(t, "2025-02-28", rf.To.Format(DateLayout))
	assert.Equal(t, 10, rf.Offset)
}

func TestUpdateAttendanceRequest_Apply(t *testing.T) {
	rec := Record{LeaveType: LeaveTypeWorked, CheckIn: ptr("08:00"), CheckOut: ptr("17:00"), Note: ptr("x")}
	leave := string(LeaveTypeSickLeave)
	empty := ""
	req := UpdateAttendanceRequest{ID: "r1", LeaveType: &leave, CheckIn: &empty, Note: &empty}
	require.NoError(t, req.Validate())

	got := req.Apply(rec)
	assert.Equal(t, LeaveTypeSickLeave, got.LeaveType)
	assert.Nil(t, got.CheckIn)
	assert.NotNil(t, got.CheckOut)
	assert.Nil(t, got.Note)
}
