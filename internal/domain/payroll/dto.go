package payroll

import (
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// ========== STATEMENT DTOs ==========

type DayCountsResponse struct {
	Worked      int `json:"worked"`
	AnnualLeave int `json:"annual_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
	Absent      int `json:"absent"`
}

type DailyBreakdownResponse struct {
	RecordID           string               `json:"record_id"`
	Date               string               `json:"date"`
	LeaveType          attendance.LeaveType `json:"leave_type"`
	LeaveTypeLabel     string               `json:"leave_type_label"`
	WorkedHours        decimal.Decimal      `json:"worked_hours"`
	OvertimeHours      decimal.Decimal      `json:"overtime_hours"`
	ShortfallHours     decimal.Decimal      `json:"shortfall_hours"`
	OvertimePay        decimal.Decimal      `json:"overtime_pay"`
	ShortfallDeduction decimal.Decimal      `json:"shortfall_deduction"`
	NetWorkPay         decimal.Decimal      `json:"net_work_pay"`
	DailyTotal         decimal.Decimal      `json:"daily_total"`
}

type StatementResponse struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Phone        *string `json:"phone,omitempty"`
	IBAN         *string `json:"iban,omitempty"`
	Period       string  `json:"period"`
	PeriodLabel  string  `json:"period_label"`

	BankSalary     decimal.Decimal `json:"bank_salary"`
	CashSalary     decimal.Decimal `json:"cash_salary"`
	BaseMonthlyPay decimal.Decimal `json:"base_monthly_pay"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`

	Days DayCountsResponse `json:"days"`

	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Meal               decimal.Decimal `json:"meal"`
	Transport          decimal.Decimal `json:"transport"`
	Bonus              decimal.Decimal `json:"bonus"`
	OtherPayment       decimal.Decimal `json:"other_payment"`
	Advance            decimal.Decimal `json:"advance"`
	OtherDeduction     decimal.Decimal `json:"other_deduction"`
	ShortfallHours     decimal.Decimal `json:"shortfall_hours"`
	ShortfallDeduction decimal.Decimal `json:"shortfall_deduction"`
	AbsenceDeduction   decimal.Decimal `json:"absence_deduction"`

	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	BankNet         decimal.Decimal `json:"bank_net"`
	CashNet         decimal.Decimal `json:"cash_net"`
	CashNegative    bool            `json:"cash_negative"`

	Breakdown []DailyBreakdownResponse `json:"breakdown"`
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func NewStatementResponse(s Statement) StatementResponse {
	resp := StatementResponse{
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		Phone:        s.Phone,
		IBAN:         s.IBAN,
		Period:       s.Period.String(),
		PeriodLabel:  s.Period.Label(),

		BankSalary:     money(s.BankSalary),
		CashSalary:     money(s.CashSalary),
		BaseMonthlyPay: money(s.BaseMonthlyPay),
		DailyRate:      money(s.DailyRate),
		HourlyRate:     money(s.HourlyRate),

		Days: DayCountsResponse{
			Worked:      s.Counts.Worked,
			AnnualLeave: s.Counts.AnnualLeave,
			SickLeave:   s.Counts.SickLeave,
			UnpaidLeave: s.Counts.UnpaidLeave,
			Absent:      s.Counts.Absent,
		},

		OvertimeHours:      s.OvertimeHours.Round(2),
		OvertimePay:        money(s.OvertimePay),
		Meal:               money(s.Meal),
		Transport:          money(s.Transport),
		Bonus:              money(s.Bonus),
		OtherPayment:       money(s.OtherPayment),
		Advance:            money(s.Advance),
		OtherDeduction:     money(s.OtherDeduction),
		ShortfallHours:     s.ShortfallHours.Round(2),
		ShortfallDeduction: money(s.ShortfallDeduction),
		AbsenceDeduction:   money(s.AbsenceDeduction),

		TotalEarnings:   money(s.TotalEarnings),
		TotalDeductions: money(s.TotalDeductions),
		NetPay:          money(s.NetPay),
		BankNet:         money(s.BankNet),
		CashNet:         money(s.CashNet),
		CashNegative:    s.CashNegative(),

		Breakdown: make([]DailyBreakdownResponse, 0, len(s.Days)),
	}

	for _, d := range s.Days {
		resp.Breakdown = append(resp.Breakdown, DailyBreakdownResponse{
			RecordID:           d.RecordID,
			Date:               d.Date.Format(attendance.DateLayout),
			LeaveType:          d.LeaveType,
			LeaveTypeLabel:     d.LeaveType.Label(),
			WorkedHours:        d.WorkedHours.Round(2),
			OvertimeHours:      d.OvertimeHours.Round(2),
			ShortfallHours:     d.ShortfallHours.Round(2),
			OvertimePay:        money(d.OvertimePay),
			ShortfallDeduction: money(d.ShortfallDeduction),
			NetWorkPay:         money(d.NetWorkPay),
			DailyTotal:         money(d.DailyTotal),
		})
	}

	return resp
}

// NewDayPay converts a breakdown into the attendance list view.
func NewDayPay(d DailyBreakdown) *attendance.DayPay {
	return &attendance.DayPay{
		DailyRate:          money(d.DailyRate),
		HourlyRate:         money(d.HourlyRate),
		OvertimePay:        money(d.OvertimePay),
		ShortfallDeduction: money(d.ShortfallDeduction),
		NetWorkPay:         money(d.NetWorkPay),
		DailyTotal:         money(d.DailyTotal),
	}
}
