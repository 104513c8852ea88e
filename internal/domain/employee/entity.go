package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultAnnualLeaveAllowance = 14

var (
	DefaultDailyHours         = decimal.NewFromInt(8)
	DefaultOvertimeMultiplier = decimal.NewFromFloat(1.5)
)

// Employee carries the pay configuration used by the payroll calculator.
type Employee struct {
	ID                   string
	FullName             string
	Phone                *string
	IBAN                 *string
	BankSalary           decimal.Decimal
	CashSalary           decimal.Decimal
	DailyHours           decimal.Decimal
	OvertimeMultiplier   decimal.Decimal
	AnnualLeaveAllowance int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TotalSalary is always bank + cash; it is never stored on its own.
func (e Employee) TotalSalary() decimal.Decimal {
	return nonNegative(e.BankSalary).Add(nonNegative(e.CashSalary))
}

// ContractedHours returns DailyHours, falling back to the default when unset.
func (e Employee) ContractedHours() decimal.Decimal {
	if !e.DailyHours.IsPositive() {
		return DefaultDailyHours
	}
	return e.DailyHours
}

// Multiplier returns OvertimeMultiplier, falling back to the default when unset.
func (e Employee) Multiplier() decimal.Decimal {
	if !e.OvertimeMultiplier.IsPositive() {
		return DefaultOvertimeMultiplier
	}
	return e.OvertimeMultiplier
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
