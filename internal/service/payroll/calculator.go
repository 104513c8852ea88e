package payroll

import (
	"sort"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var daysPerMonth = decimal.NewFromInt(payroll.DaysPerMonth)

// Calculator turns pay configuration and attendance into money. It holds no
// state and never fails on bad numbers: negatives count as zero.
type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// DailyRate is the monthly total salary spread over a fixed 30 days.
func (c *Calculator) DailyRate(emp employee.Employee) decimal.Decimal {
	return emp.TotalSalary().Div(daysPerMonth)
}

// HourlyRate is the daily rate over the contracted daily hours.
func (c *Calculator) HourlyRate(emp employee.Employee) decimal.Decimal {
	return c.DailyRate(emp).Div(emp.ContractedHours())
}

// ComputeDay prices a single attendance record.
func (c *Calculator) ComputeDay(emp employee.Employee, rec attendance.Record) payroll.DailyBreakdown {
	dailyRate := c.DailyRate(emp)
	hourlyRate := dailyRate.Div(emp.ContractedHours())

	d := payroll.DailyBreakdown{
		RecordID:           rec.ID,
		Date:               rec.Date,
		LeaveType:          rec.LeaveType,
		WorkedHours:        decimal.Zero,
		OvertimeHours:      decimal.Zero,
		ShortfallHours:     decimal.Zero,
		DailyRate:          dailyRate,
		HourlyRate:         hourlyRate,
		OvertimePay:        decimal.Zero,
		ShortfallDeduction: decimal.Zero,
		NetWorkPay:         decimal.Zero,
		Meal:               nonNegative(rec.Meal),
		Transport:          nonNegative(rec.Transport),
		Bonus:              nonNegative(rec.Bonus),
		Advance:            nonNegative(rec.Advance),
		OtherPayment:       nonNegative(rec.OtherPayment),
		OtherDeduction:     nonNegative(rec.OtherDeduction),
	}

	switch rec.LeaveType {
	case attendance.LeaveTypeWorked:
		// overtime and shortfall only exist on worked days
		d.WorkedHours = nonNegative(rec.WorkedHours)
		d.OvertimeHours = nonNegative(rec.OvertimeHours)
		d.ShortfallHours = nonNegative(rec.ShortfallHours)
		d.OvertimePay = d.OvertimeHours.Mul(hourlyRate).Mul(emp.Multiplier())
		d.ShortfallDeduction = d.ShortfallHours.Mul(hourlyRate)
		d.NetWorkPay = dailyRate.Add(d.OvertimePay)
	case attendance.LeaveTypeAnnualLeave, attendance.LeaveTypeSickLeave:
		d.NetWorkPay = dailyRate
	case attendance.LeaveTypeUnpaidLeave, attendance.LeaveTypeAbsent:
		d.NetWorkPay = decimal.Zero
	default:
		// unknown leave types are rejected before they are stored
		d.NetWorkPay = decimal.Zero
	}

	d.DailyTotal = d.NetWorkPay.
		Add(d.Meal).
		Add(d.Transport).
		Add(d.Bonus).
		Add(d.OtherPayment).
		Sub(d.Advance).
		Sub(d.OtherDeduction).
		Sub(d.ShortfallDeduction)

	return d
}

// ComputeStatement aggregates the employee's records for the period. Records
// of other employees or other months are ignored. It returns
// payroll.ErrNoAttendanceData when nothing is left.
func (c *Calculator) ComputeStatement(emp employee.Employee, records []attendance.Record, period payroll.Period) (payroll.Statement, error) {
	var inPeriod []attendance.Record
	for _, rec := range records {
		if rec.EmployeeID == emp.ID && period.Contains(rec.Date) {
			inPeriod = append(inPeriod, rec)
		}
	}
	if len(inPeriod) == 0 {
		return payroll.Statement{}, payroll.ErrNoAttendanceData
	}
	sort.SliceStable(inPeriod, func(i, j int) bool {
		return inPeriod[i].Date.Before(inPeriod[j].Date)
	})

	dailyRate := c.DailyRate(emp)
	s := payroll.Statement{
		EmployeeID:         emp.ID,
		EmployeeName:       emp.FullName,
		Phone:              emp.Phone,
		IBAN:               emp.IBAN,
		Period:             period,
		BankSalary:         nonNegative(emp.BankSalary),
		CashSalary:         nonNegative(emp.CashSalary),
		BaseMonthlyPay:     emp.TotalSalary(),
		DailyRate:          dailyRate,
		HourlyRate:         dailyRate.Div(emp.ContractedHours()),
		OvertimeHours:      decimal.Zero,
		OvertimePay:        decimal.Zero,
		Meal:               decimal.Zero,
		Transport:          decimal.Zero,
		Bonus:              decimal.Zero,
		OtherPayment:       decimal.Zero,
		Advance:            decimal.Zero,
		OtherDeduction:     decimal.Zero,
		ShortfallHours:     decimal.Zero,
		ShortfallDeduction: decimal.Zero,
		Days:               make([]payroll.DailyBreakdown, 0, len(inPeriod)),
	}

	for _, rec := range inPeriod {
		d := c.ComputeDay(emp, rec)
		s.Days = append(s.Days, d)

		s.OvertimeHours = s.OvertimeHours.Add(d.OvertimeHours)
		s.OvertimePay = s.OvertimePay.Add(d.OvertimePay)
		s.Meal = s.Meal.Add(d.Meal)
		s.Transport = s.Transport.Add(d.Transport)
		s.Bonus = s.Bonus.Add(d.Bonus)
		s.OtherPayment = s.OtherPayment.Add(d.OtherPayment)
		s.Advance = s.Advance.Add(d.Advance)
		s.OtherDeduction = s.OtherDeduction.Add(d.OtherDeduction)
		s.ShortfallHours = s.ShortfallHours.Add(d.ShortfallHours)
		s.ShortfallDeduction = s.ShortfallDeduction.Add(d.ShortfallDeduction)

		switch rec.LeaveType {
		case attendance.LeaveTypeWorked:
			s.Counts.Worked++
		case attendance.LeaveTypeAnnualLeave:
			s.Counts.AnnualLeave++
		case attendance.LeaveTypeSickLeave:
			s.Counts.SickLeave++
		case attendance.LeaveTypeUnpaidLeave:
			s.Counts.UnpaidLeave++
		case attendance.LeaveTypeAbsent:
			s.Counts.Absent++
		}
	}

	s.AbsenceDeduction = dailyRate.Mul(decimal.NewFromInt(int64(s.Counts.Unpaid())))

	s.TotalEarnings = s.BaseMonthlyPay.
		Add(s.OvertimePay).
		Add(s.Meal).
		Add(s.Transport).
		Add(s.Bonus).
		Add(s.OtherPayment)
	s.TotalDeductions = s.Advance.
		Add(s.OtherDeduction).
		Add(s.ShortfallDeduction).
		Add(s.AbsenceDeduction)
	s.NetPay = s.TotalEarnings.Sub(s.TotalDeductions)

	s.BankNet, s.CashNet = SplitChannels(s.NetPay, s.BankSalary)

	return s, nil
}

// SplitChannels pays the bank channel first, capped at the bank salary, and
// leaves the rest (possibly negative) to cash.
func SplitChannels(netPay, bankSalary decimal.Decimal) (bankNet, cashNet decimal.Decimal) {
	bankNet = decimal.Min(nonNegative(bankSalary), decimal.Max(decimal.Zero, netPay))
	cashNet = netPay.Sub(bankNet)
	return bankNet, cashNet
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
