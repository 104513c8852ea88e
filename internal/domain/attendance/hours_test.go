package attendance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestComputeHours(t *testing.T) {
	eight := decimal.NewFromInt(8)

	tests := []struct {
		name      string
		in, out   *string
		contract  decimal.Decimal
		worked    string
		overtime  string
		shortfall string
	}{
		{"exact shift", ptr("08:00"), ptr("16:00"), eight, "8", "0", "0"},
		{"overtime", ptr("08:00"), ptr("18:00"), eight, "10", "2", "0"},
		{"shortfall", ptr("09:00"), ptr("15:30"), eight, "6.5", "0", "1.5"},
		{"overnight wrap", ptr("22:00"), ptr("02:00"), eight, "4", "0", "4"},
		{"overnight long shift", ptr("20:00"), ptr("06:00"), eight, "10", "2", "0"},
		{"same time is zero elapsed", ptr("08:00"), ptr("08:00"), eight, "0", "0", "8"},
		{"missing check-in", nil, ptr("16:00"), eight, "0", "0", "0"},
		{"missing check-out", ptr("08:00"), nil, eight, "0", "0", "0"},
		{"malformed time", ptr("8h"), ptr("16:00"), eight, "0", "0", "0"},
		{"nine hour contract", ptr("08:00"), ptr("17:00"), decimal.NewFromInt(9), "9", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ComputeHours(tt.in, tt.out, tt.contract)
			assertDecimal(t, tt.worked, h.Worked, "worked")
			assertDecimal(t, tt.overtime, h.Overtime, "overtime")
			assertDecimal(t, tt.shortfall, h.Shortfall, "shortfall")
			assert.False(t, h.Overtime.IsPositive() && h.Shortfall.IsPositive(), "overtime and shortfall are exclusive")
		})
	}
}

func TestRecord_Recompute(t *testing.T) {
	eight := decimal.NewFromInt(8)

	t.Run("worked day derives hours", func(t *testing.T) {
		r := Record{LeaveType: LeaveTypeWorked, CheckIn: ptr("08:00"), CheckOut: ptr("19:00")}
		r.Recompute(eight)
		assertDecimal(t, "11", r.WorkedHours)
		assertDecimal(t, "3", r.OvertimeHours)
		assertDecimal(t, "0", r.ShortfallHours)
	})

	t.Run("leave day clears hours", func(t *testing.T) {
		for _, lt := range []LeaveType{LeaveTypeAnnualLeave, LeaveTypeUnpaidLeave, LeaveTypeSickLeave, LeaveTypeAbsent} {
			r := Record{
				LeaveType:      lt,
				CheckIn:        ptr("08:00"),
				CheckOut:       ptr("10:00"),
				ShortfallHours: decimal.NewFromInt(6),
			}
			r.Recompute(eight)
			assert.True(t, r.WorkedHours.IsZero(), lt)
			assert.True(t, r.OvertimeHours.IsZero(), lt)
			assert.True(t, r.ShortfallHours.IsZero(), lt)
		}
	})
}

func TestLeaveType(t *testing.T) {
	for _, lt := range LeaveTypes {
		assert.True(t, lt.IsValid())
		assert.NotEqual(t, string(lt), lt.Label())
	}
	assert.False(t, LeaveType("holiday").IsValid())
	assert.Equal(t, "holiday", LeaveType("holiday").Label())
}
