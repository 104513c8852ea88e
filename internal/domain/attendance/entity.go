package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type LeaveType string

const (
	LeaveTypeWorked      LeaveType = "worked"
	LeaveTypeAnnualLeave LeaveType = "annual_leave"
	LeaveTypeUnpaidLeave LeaveType = "unpaid_leave"
	LeaveTypeSickLeave   LeaveType = "sick_leave"
	LeaveTypeAbsent      LeaveType = "absent"
)

var LeaveTypes = []LeaveType{
	LeaveTypeWorked,
	LeaveTypeAnnualLeave,
	LeaveTypeUnpaidLeave,
	LeaveTypeSickLeave,
	LeaveTypeAbsent,
}

func (l LeaveType) IsValid() bool {
	switch l {
	case LeaveTypeWorked, LeaveTypeAnnualLeave, LeaveTypeUnpaidLeave, LeaveTypeSickLeave, LeaveTypeAbsent:
		return true
	}
	return false
}

// Label returns the status text printed on exports.
func (l LeaveType) Label() string {
	switch l {
	case LeaveTypeWorked:
		return "Çalıştı"
	case LeaveTypeAnnualLeave:
		return "Yıllık İzin"
	case LeaveTypeUnpaidLeave:
		return "Ücretsiz İzin"
	case LeaveTypeSickLeave:
		return "Rapor"
	case LeaveTypeAbsent:
		return "Gelmedi"
	}
	return string(l)
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	LeaveType          LeaveType
	CheckIn            *string
	CheckOut           *string
	WorkedHours        decimal.Decimal
	OvertimeHours      decimal.Decimal
	ShortfallHours     decimal.Decimal
	Meal               decimal.Decimal
	Transport          decimal.Decimal
	Bonus              decimal.Decimal
	Advance            decimal.Decimal
	OtherPayment       decimal.Decimal
	OtherPaymentNote   *string
	OtherDeduction     decimal.Decimal
	OtherDeductionNote *string
	Note               *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO / Join
	EmployeeName *string
}

// Recompute refreshes the derived hour fields. Hours only apply to worked days.
func (r *Record) Recompute(contractedHours decimal.Decimal) {
	if r.LeaveType != LeaveTypeWorked {
		r.WorkedHours = decimal.Zero
		r.OvertimeHours = decimal.Zero
		r.ShortfallHours = decimal.Zero
		return
	}

	h := ComputeHours(r.CheckIn, r.CheckOut, contractedHours)
	r.WorkedHours = h.Worked
	r.OvertimeHours = h.Overtime
	r.ShortfallHours = h.Shortfall
}

// NormalizeDate strips the clock part so dates compare by calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}
