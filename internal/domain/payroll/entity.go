package payroll

import (
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// DaysPerMonth is the fixed divisor used to derive the daily rate.
const DaysPerMonth = 30

// DailyBreakdown is the full money trail for one attendance record.
type DailyBreakdown struct {
	RecordID  string
	Date      time.Time
	LeaveType attendance.LeaveType

	WorkedHours    decimal.Decimal
	OvertimeHours  decimal.Decimal
	ShortfallHours decimal.Decimal

	DailyRate          decimal.Decimal
	HourlyRate         decimal.Decimal
	OvertimePay        decimal.Decimal
	ShortfallDeduction decimal.Decimal
	NetWorkPay         decimal.Decimal

	Meal           decimal.Decimal
	Transport      decimal.Decimal
	Bonus          decimal.Decimal
	Advance        decimal.Decimal
	OtherPayment   decimal.Decimal
	OtherDeduction decimal.Decimal

	DailyTotal decimal.Decimal
}

type DayCounts struct {
	Worked      int
	AnnualLeave int
	SickLeave   int
	UnpaidLeave int
	Absent      int
}

// Unpaid is the number of days charged as absence deduction.
func (c DayCounts) Unpaid() int {
	return c.UnpaidLeave + c.Absent
}

func (c DayCounts) Total() int {
	return c.Worked + c.AnnualLeave + c.SickLeave + c.UnpaidLeave + c.Absent
}

// Statement is the monthly payroll ("bordro") of one employee.
type Statement struct {
	EmployeeID   string
	EmployeeName string
	Phone        *string
	IBAN         *string
	Period       Period

	BankSalary     decimal.Decimal
	CashSalary     decimal.Decimal
	BaseMonthlyPay decimal.Decimal
	DailyRate      decimal.Decimal
	HourlyRate     decimal.Decimal

	Counts DayCounts

	OvertimeHours      decimal.Decimal
	OvertimePay        decimal.Decimal
	Meal               decimal.Decimal
	Transport          decimal.Decimal
	Bonus              decimal.Decimal
	OtherPayment       decimal.Decimal
	Advance            decimal.Decimal
	OtherDeduction     decimal.Decimal
	ShortfallHours     decimal.Decimal
	ShortfallDeduction decimal.Decimal
	AbsenceDeduction   decimal.Decimal

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	BankNet decimal.Decimal
	CashNet decimal.Decimal

	Days []DailyBreakdown
}

// CashNegative flags a statement whose cash channel owes money back.
func (s Statement) CashNegative() bool {
	return s.CashNet.IsNegative()
}

// DailyTotalSum adds up the per-day totals.
func (s Statement) DailyTotalSum() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range s.Days {
		sum = sum.Add(d.DailyTotal)
	}
	return sum
}
