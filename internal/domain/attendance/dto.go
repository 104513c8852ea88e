package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DayEntry holds the per-day fields shared by single and range entry.
type DayEntry struct {
	LeaveType          string          `json:"leave_type"`
	CheckIn            *string         `json:"check_in,omitempty"`
	CheckOut           *string         `json:"check_out,omitempty"`
	Meal               decimal.Decimal `json:"meal"`
	Transport          decimal.Decimal `json:"transport"`
	Bonus              decimal.Decimal `json:"bonus"`
	Advance            decimal.Decimal `json:"advance"`
	OtherPayment       decimal.Decimal `json:"other_payment"`
	OtherPaymentNote   *string         `json:"other_payment_note,omitempty"`
	OtherDeduction     decimal.Decimal `json:"other_deduction"`
	OtherDeductionNote *string         `json:"other_deduction_note,omitempty"`
	Note               *string         `json:"note,omitempty"`
}

func (e *DayEntry) validate(errs *validator.ValidationErrors) {
	if e.LeaveType != "" && !LeaveType(e.LeaveType).IsValid() {
		errs.Add("leave_type", "leave_type must be one of: worked, annual_leave, unpaid_leave, sick_leave, absent")
	}
	validateClock(errs, "check_in", e.CheckIn)
	validateClock(errs, "check_out", e.CheckOut)

	amounts := map[string]decimal.Decimal{
		"meal":            e.Meal,
		"transport":       e.Transport,
		"bonus":           e.Bonus,
		"advance":         e.Advance,
		"other_payment":   e.OtherPayment,
		"other_deduction": e.OtherDeduction,
	}
	for field, v := range amounts {
		if v.IsNegative() {
			errs.Add(field, field+" must be non-negative")
		}
	}
}

// ToRecord builds the record for one date. An empty leave type means worked.
func (e *DayEntry) ToRecord(employeeID string, date time.Time) Record {
	leaveType := LeaveType(e.LeaveType)
	if leaveType == "" {
		leaveType = LeaveTypeWorked
	}
	return Record{
		EmployeeID:         employeeID,
		Date:               NormalizeDate(date),
		LeaveType:          leaveType,
		CheckIn:            emptyToNil(e.CheckIn),
		CheckOut:           emptyToNil(e.CheckOut),
		Meal:               e.Meal,
		Transport:          e.Transport,
		Bonus:              e.Bonus,
		Advance:            e.Advance,
		OtherPayment:       e.OtherPayment,
		OtherPaymentNote:   emptyToNil(e.OtherPaymentNote),
		OtherDeduction:     e.OtherDeduction,
		OtherDeductionNote: emptyToNil(e.OtherDeductionNote),
		Note:               emptyToNil(e.Note),
	}
}

type CreateAttendanceRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	DayEntry
	// Overwrite replaces an existing record for the same employee and date.
	Overwrite bool `json:"overwrite"`
}

func (r *CreateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	r.DayEntry.validate(&errs)
	return errs.Err()
}

type CreateAttendanceRangeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	DayEntry
}

func (r *CreateAttendanceRangeRequest) Validate() error {
	errs := validator.Struct(r)
	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	r.DayEntry.validate(&errs)
	return errs.Err()
}

type UpdateAttendanceRequest struct {
	ID                 string           `json:"-"`
	Date               *string          `json:"date,omitempty"`
	LeaveType          *string          `json:"leave_type,omitempty"`
	CheckIn            *string          `json:"check_in,omitempty"`
	CheckOut           *string          `json:"check_out,omitempty"`
	Meal               *decimal.Decimal `json:"meal,omitempty"`
	Transport          *decimal.Decimal `json:"transport,omitempty"`
	Bonus              *decimal.Decimal `json:"bonus,omitempty"`
	Advance            *decimal.Decimal `json:"advance,omitempty"`
	OtherPayment       *decimal.Decimal `json:"other_payment,omitempty"`
	OtherPaymentNote   *string          `json:"other_payment_note,omitempty"`
	OtherDeduction     *decimal.Decimal `json:"other_deduction,omitempty"`
	OtherDeductionNote *string          `json:"other_deduction_note,omitempty"`
	Note               *string          `json:"note,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs.Add("id", "id is required")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.LeaveType != nil && !LeaveType(*r.LeaveType).IsValid() {
		errs.Add("leave_type", "leave_type must be one of: worked, annual_leave, unpaid_leave, sick_leave, absent")
	}
	validateClock(&errs, "check_in", r.CheckIn)
	validateClock(&errs, "check_out", r.CheckOut)

	amounts := map[string]*decimal.Decimal{
		"meal":            r.Meal,
		"transport":       r.Transport,
		"bonus":           r.Bonus,
		"advance":         r.Advance,
		"other_payment":   r.OtherPayment,
		"other_deduction": r.OtherDeduction,
	}
	for field, v := range amounts {
		if v != nil && v.IsNegative() {
			errs.Add(field, field+" must be non-negative")
		}
	}

	return errs.Err()
}

// Apply merges the non-nil fields into rec. An empty check time clears it.
func (r *UpdateAttendanceRequest) Apply(rec Record) Record {
	if r.Date != nil {
		if d, err := ParseDate(*r.Date); err == nil {
			rec.Date = d
		}
	}
	if r.LeaveType != nil {
		rec.LeaveType = LeaveType(*r.LeaveType)
	}
	if r.CheckIn != nil {
		rec.CheckIn = emptyToNil(r.CheckIn)
	}
	if r.CheckOut != nil {
		rec.CheckOut = emptyToNil(r.CheckOut)
	}
	if r.Meal != nil {
		rec.Meal = *r.Meal
	}
	if r.Transport != nil {
		rec.Transport = *r.Transport
	}
	if r.Bonus != nil {
		rec.Bonus = *r.Bonus
	}
	if r.Advance != nil {
		rec.Advance = *r.Advance
	}
	if r.OtherPayment != nil {
		rec.OtherPayment = *r.OtherPayment
	}
	if r.OtherPaymentNote != nil {
		rec.OtherPaymentNote = emptyToNil(r.OtherPaymentNote)
	}
	if r.OtherDeduction != nil {
		rec.OtherDeduction = *r.OtherDeduction
	}
	if r.OtherDeductionNote != nil {
		rec.OtherDeductionNote = emptyToNil(r.OtherDeductionNote)
	}
	if r.Note != nil {
		rec.Note = emptyToNil(r.Note)
	}
	return rec
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *string `json:"month,omitempty"`      // YYYY-MM
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 100
	}
	if f.Limit > 1000 {
		errs.Add("limit", "limit must not exceed 1000")
	}

	if f.Month != nil && *f.Month != "" && !validator.IsValidMonth(*f.Month) {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// ToRecordFilter converts a validated filter. Month takes precedence over explicit dates.
func (f *AttendanceFilter) ToRecordFilter() RecordFilter {
	rf := RecordFilter{
		Limit:  f.Limit,
		Offset: (f.Page - 1) * f.Limit,
	}
	if f.EmployeeID != nil {
		rf.EmployeeID = *f.EmployeeID
	}
	if f.StartDate != nil && *f.StartDate != "" {
		rf.From, _ = ParseDate(*f.StartDate)
	}
	if f.EndDate != nil && *f.EndDate != "" {
		rf.To, _ = ParseDate(*f.EndDate)
	}
	if f.Month != nil && *f.Month != "" {
		if m, err := time.Parse("2006-01", *f.Month); err == nil {
			rf.From = NormalizeDate(m)
			rf.To = rf.From.AddDate(0, 1, -1)
		}
	}
	return rf
}

// DayPay mirrors the daily calculator output for list rendering.
type DayPay struct {
	DailyRate          decimal.Decimal `json:"daily_rate"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	ShortfallDeduction decimal.Decimal `json:"shortfall_deduction"`
	NetWorkPay         decimal.Decimal `json:"net_work_pay"`
	DailyTotal         decimal.Decimal `json:"daily_total"`
}

type AttendanceResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	Date               string          `json:"date"`
	LeaveType          LeaveType       `json:"leave_type"`
	LeaveTypeLabel     string          `json:"leave_type_label"`
	CheckIn            *string         `json:"check_in,omitempty"`
	CheckOut           *string         `json:"check_out,omitempty"`
	WorkedHours        decimal.Decimal `json:"worked_hours"`
	OvertimeHours      decimal.Decimal `json:"overtime_hours"`
	ShortfallHours     decimal.Decimal `json:"shortfall_hours"`
	Meal               decimal.Decimal `json:"meal"`
	Transport          decimal.Decimal `json:"transport"`
	Bonus              decimal.Decimal `json:"bonus"`
	Advance            decimal.Decimal `json:"advance"`
	OtherPayment       decimal.Decimal `json:"other_payment"`
	OtherPaymentNote   *string         `json:"other_payment_note,omitempty"`
	OtherDeduction     decimal.Decimal `json:"other_deduction"`
	OtherDeductionNote *string         `json:"other_deduction_note,omitempty"`
	Note               *string         `json:"note,omitempty"`
	Pay                *DayPay         `json:"pay,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewAttendanceResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		Date:               r.Date.Format(DateLayout),
		LeaveType:          r.LeaveType,
		LeaveTypeLabel:     r.LeaveType.Label(),
		CheckIn:            r.CheckIn,
		CheckOut:           r.CheckOut,
		WorkedHours:        r.WorkedHours.Round(2),
		OvertimeHours:      r.OvertimeHours.Round(2),
		ShortfallHours:     r.ShortfallHours.Round(2),
		Meal:               r.Meal,
		Transport:          r.Transport,
		Bonus:              r.Bonus,
		Advance:            r.Advance,
		OtherPayment:       r.OtherPayment,
		OtherPaymentNote:   r.OtherPaymentNote,
		OtherDeduction:     r.OtherDeduction,
		OtherDeductionNote: r.OtherDeductionNote,
		Note:               r.Note,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type ListAttendanceResponse struct {
	Items      []AttendanceResponse `json:"items"`
	TotalItems int64                `json:"total_items"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

func validateClock(errs *validator.ValidationErrors, field string, v *string) {
	if v == nil || *v == "" {
		return
	}
	if !validator.IsValidClockTime(*v) {
		errs.Add(field, field+" must be in HH:MM format")
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
