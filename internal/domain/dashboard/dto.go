package dashboard

import "github.com/shopspring/decimal"

// LeaveSummaryResponse counts the month's records per leave type.
type LeaveSummaryResponse struct {
	Worked      int `json:"worked"`
	AnnualLeave int `json:"annual_leave"`
	SickLeave   int `json:"sick_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
	Absent      int `json:"absent"`
}

// DashboardResponse is the combined dashboard payload
type DashboardResponse struct {
	Period             string               `json:"period"`
	PeriodLabel        string               `json:"period_label"`
	TotalEmployees     int                  `json:"total_employees"`
	TotalMonthlySalary decimal.Decimal      `json:"total_monthly_salary"`
	PeriodPayroll      decimal.Decimal      `json:"period_payroll"`
	RecordCount        int                  `json:"record_count"`
	OvertimeHours      decimal.Decimal      `json:"overtime_hours"`
	Leave              LeaveSummaryResponse `json:"leave"`
}
