package employee

import (
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxDailyHours = decimal.NewFromInt(24)

type CreateEmployeeRequest struct {
	FullName             string           `json:"full_name" validate:"required,max=255"`
	Phone                *string          `json:"phone,omitempty"`
	IBAN                 *string          `json:"iban,omitempty"`
	BankSalary           decimal.Decimal  `json:"bank_salary"`
	CashSalary           decimal.Decimal  `json:"cash_salary"`
	DailyHours           *decimal.Decimal `json:"daily_hours,omitempty"`
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	AnnualLeaveAllowance *int             `json:"annual_leave_allowance,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)

	validateContact(&errs, r.Phone, r.IBAN)
	if r.BankSalary.IsNegative() {
		errs.Add("bank_salary", "bank_salary must be non-negative")
	}
	if r.CashSalary.IsNegative() {
		errs.Add("cash_salary", "cash_salary must be non-negative")
	}
	validateWorkTerms(&errs, r.DailyHours, r.OvertimeMultiplier, r.AnnualLeaveAllowance)

	return errs.Err()
}

// ToEntity applies defaults for omitted work terms.
func (r *CreateEmployeeRequest) ToEntity() Employee {
	e := Employee{
		FullName:             r.FullName,
		Phone:                r.Phone,
		IBAN:                 r.IBAN,
		BankSalary:           r.BankSalary,
		CashSalary:           r.CashSalary,
		DailyHours:           DefaultDailyHours,
		OvertimeMultiplier:   DefaultOvertimeMultiplier,
		AnnualLeaveAllowance: DefaultAnnualLeaveAllowance,
	}
	if r.DailyHours != nil {
		e.DailyHours = *r.DailyHours
	}
	if r.OvertimeMultiplier != nil {
		e.OvertimeMultiplier = *r.OvertimeMultiplier
	}
	if r.AnnualLeaveAllowance != nil {
		e.AnnualLeaveAllowance = *r.AnnualLeaveAllowance
	}
	return e
}

type UpdateEmployeeRequest struct {
	ID                   string           `json:"-"`
	FullName             *string          `json:"full_name,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	IBAN                 *string          `json:"iban,omitempty"`
	BankSalary           *decimal.Decimal `json:"bank_salary,omitempty"`
	CashSalary           *decimal.Decimal `json:"cash_salary,omitempty"`
	DailyHours           *decimal.Decimal `json:"daily_hours,omitempty"`
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	AnnualLeaveAllowance *int             `json:"annual_leave_allowance,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs.Add("id", "id is required")
	}
	if r.FullName != nil {
		if validator.IsEmpty(*r.FullName) {
			errs.Add("full_name", "full_name cannot be empty")
		} else if len(*r.FullName) > 255 {
			errs.Add("full_name", "full_name must not exceed 255 characters")
		}
	}
	validateContact(&errs, r.Phone, r.IBAN)
	if r.BankSalary != nil && r.BankSalary.IsNegative() {
		errs.Add("bank_salary", "bank_salary must be non-negative")
	}
	if r.CashSalary != nil && r.CashSalary.IsNegative() {
		errs.Add("cash_salary", "cash_salary must be non-negative")
	}
	validateWorkTerms(&errs, r.DailyHours, r.OvertimeMultiplier, r.AnnualLeaveAllowance)

	return errs.Err()
}

// Apply merges the non-nil fields of r into e.
func (r *UpdateEmployeeRequest) Apply(e Employee) Employee {
	if r.FullName != nil {
		e.FullName = *r.FullName
	}
	if r.Phone != nil {
		e.Phone = r.Phone
	}
	if r.IBAN != nil {
		e.IBAN = r.IBAN
	}
	if r.BankSalary != nil {
		e.BankSalary = *r.BankSalary
	}
	if r.CashSalary != nil {
		e.CashSalary = *r.CashSalary
	}
	if r.DailyHours != nil {
		e.DailyHours = *r.DailyHours
	}
	if r.OvertimeMultiplier != nil {
		e.OvertimeMultiplier = *r.OvertimeMultiplier
	}
	if r.AnnualLeaveAllowance != nil {
		e.AnnualLeaveAllowance = *r.AnnualLeaveAllowance
	}
	return e
}

func validateContact(errs *validator.ValidationErrors, phone, iban *string) {
	if phone != nil && !validator.IsEmpty(*phone) && !validator.IsValidPhoneNumber(*phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if iban != nil && !validator.IsEmpty(*iban) && !validator.IsValidIBAN(*iban) {
		errs.Add("iban", "iban must be a valid IBAN")
	}
}

func validateWorkTerms(errs *validator.ValidationErrors, dailyHours, multiplier *decimal.Decimal, allowance *int) {
	if dailyHours != nil && (!dailyHours.IsPositive() || dailyHours.GreaterThan(maxDailyHours)) {
		errs.Add("daily_hours", "daily_hours must be greater than 0 and at most 24")
	}
	if multiplier != nil && !multiplier.IsPositive() {
		errs.Add("overtime_multiplier", "overtime_multiplier must be greater than 0")
	}
	if allowance != nil && *allowance < 0 {
		errs.Add("annual_leave_allowance", "annual_leave_allowance must be non-negative")
	}
}

type EmployeeResponse struct {
	ID                   string          `json:"id"`
	FullName             string          `json:"full_name"`
	Phone                *string         `json:"phone,omitempty"`
	IBAN                 *string         `json:"iban,omitempty"`
	BankSalary           decimal.Decimal `json:"bank_salary"`
	CashSalary           decimal.Decimal `json:"cash_salary"`
	TotalSalary          decimal.Decimal `json:"total_salary"`
	DailyHours           decimal.Decimal `json:"daily_hours"`
	OvertimeMultiplier   decimal.Decimal `json:"overtime_multiplier"`
	AnnualLeaveAllowance int             `json:"annual_leave_allowance"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                   e.ID,
		FullName:             e.FullName,
		Phone:                e.Phone,
		IBAN:                 e.IBAN,
		BankSalary:           e.BankSalary,
		CashSalary:           e.CashSalary,
		TotalSalary:          e.TotalSalary(),
		DailyHours:           e.ContractedHours(),
		OvertimeMultiplier:   e.Multiplier(),
		AnnualLeaveAllowance: e.AnnualLeaveAllowance,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}
