package backup

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type EmployeeDocument struct {
	ID                   string          `json:"id"`
	FullName             string          `json:"full_name"`
	Phone                *string         `json:"phone,omitempty"`
	IBAN                 *string         `json:"iban,omitempty"`
	BankSalary           decimal.Decimal `json:"bank_salary"`
	CashSalary           decimal.Decimal `json:"cash_salary"`
	DailyHours           decimal.Decimal `json:"daily_hours"`
	OvertimeMultiplier   decimal.Decimal `json:"overtime_multiplier"`
	AnnualLeaveAllowance int             `json:"annual_leave_allowance"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type RecordDocument struct {
	ID                 string               `json:"id"`
	EmployeeID         string               `json:"employee_id"`
	Date               string               `json:"date"`
	LeaveType          attendance.LeaveType `json:"leave_type"`
	CheckIn            *string              `json:"check_in,omitempty"`
	CheckOut           *string              `json:"check_out,omitempty"`
	WorkedHours        decimal.Decimal      `json:"worked_hours"`
	OvertimeHours      decimal.Decimal      `json:"overtime_hours"`
	ShortfallHours     decimal.Decimal      `json:"shortfall_hours"`
	Meal               decimal.Decimal      `json:"meal"`
	Transport          decimal.Decimal      `json:"transport"`
	Bonus              decimal.Decimal      `json:"bonus"`
	Advance            decimal.Decimal      `json:"advance"`
	OtherPayment       decimal.Decimal      `json:"other_payment"`
	OtherPaymentNote   *string              `json:"other_payment_note,omitempty"`
	OtherDeduction     decimal.Decimal      `json:"other_deduction"`
	OtherDeductionNote *string              `json:"other_deduction_note,omitempty"`
	Note               *string              `json:"note,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type UserDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Document is the flat JSON backup format. A missing users list on restore
// keeps the current accounts.
type Document struct {
	Employees  []EmployeeDocument `json:"employees"`
	Attendance []RecordDocument   `json:"attendance"`
	Users      []UserDocument     `json:"users,omitempty"`
	BackupDate time.Time          `json:"backup_date"`
}

// FileName is the archive name used for a backup taken at t.
func FileName(t time.Time) string {
	return "Personel_Takip_Yedek_" + t.Format("2006-01-02") + ".json"
}

type ArchiveResponse struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	URL        string    `json:"url,omitempty"`
	BackupDate time.Time `json:"backup_date"`
}

type ArchiveInfoResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type RestoreResponse struct {
	Employees  int `json:"employees"`
	Attendance int `json:"attendance"`
	Users      int `json:"users"`
}

func NewDocument(s Snapshot) Document {
	doc := Document{
		Employees:  make([]EmployeeDocument, 0, len(s.Employees)),
		Attendance: make([]RecordDocument, 0, len(s.Records)),
		Users:      make([]UserDocument, 0, len(s.Users)),
		BackupDate: s.BackupDate,
	}

	for _, e := range s.Employees {
		doc.Employees = append(doc.Employees, EmployeeDocument{
			ID:                   e.ID,
			FullName:             e.FullName,
			Phone:                e.Phone,
			IBAN:                 e.IBAN,
			BankSalary:           e.BankSalary,
			CashSalary:           e.CashSalary,
			DailyHours:           e.DailyHours,
			OvertimeMultiplier:   e.OvertimeMultiplier,
			AnnualLeaveAllowance: e.AnnualLeaveAllowance,
			CreatedAt:            e.CreatedAt,
			UpdatedAt:            e.UpdatedAt,
		})
	}
	for _, r := range s.Records {
		doc.Attendance = append(doc.Attendance, RecordDocument{
			ID:                 r.ID,
			EmployeeID:         r.EmployeeID,
			Date:               r.Date.Format(attendance.DateLayout),
			LeaveType:          r.LeaveType,
			CheckIn:            r.CheckIn,
			CheckOut:           r.CheckOut,
			WorkedHours:        r.WorkedHours,
			OvertimeHours:      r.OvertimeHours,
			ShortfallHours:     r.ShortfallHours,
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
		})
	}
	for _, u := range s.Users {
		doc.Users = append(doc.Users, UserDocument{
			ID:           u.ID,
			Name:         u.Name,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}

	return doc
}

// ToSnapshot checks referential integrity and converts the document.
func (d Document) ToSnapshot() (Snapshot, error) {
	s := Snapshot{
		Employees:  make([]employee.Employee, 0, len(d.Employees)),
		Records:    make([]attendance.Record, 0, len(d.Attendance)),
		BackupDate: d.BackupDate,
	}

	employeeIDs := make(map[string]struct{}, len(d.Employees))
	for i, e := range d.Employees {
		if e.ID == "" {
			return Snapshot{}, fmt.Errorf("%w: employees[%d] has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := employeeIDs[e.ID]; dup {
			return Snapshot{}, fmt.Errorf("%w: duplicate employee id %s", ErrInvalidSnapshot, e.ID)
		}
		employeeIDs[e.ID] = struct{}{}

		s.Employees = append(s.Employees, employee.Employee{
			ID:                   e.ID,
			FullName:             e.FullName,
			Phone:                e.Phone,
			IBAN:                 e.IBAN,
			BankSalary:           e.BankSalary,
			CashSalary:           e.CashSalary,
			DailyHours:           e.DailyHours,
			OvertimeMultiplier:   e.OvertimeMultiplier,
			AnnualLeaveAllowance: e.AnnualLeaveAllowance,
			CreatedAt:            e.CreatedAt,
			UpdatedAt:            e.UpdatedAt,
		})
	}

	recordIDs := make(map[string]struct{}, len(d.Attendance))
	days := make(map[string]struct{}, len(d.Attendance))
	for i, r := range d.Attendance {
		if r.ID == "" {
			return Snapshot{}, fmt.Errorf("%w: attendance[%d] has no id", ErrInvalidSnapshot, i)
		}
		if _, dup := recordIDs[r.ID]; dup {
			return Snapshot{}, fmt.Errorf("%w: duplicate attendance id %s", ErrInvalidSnapshot, r.ID)
		}
		recordIDs[r.ID] = struct{}{}

		if _, ok := employeeIDs[r.EmployeeID]; !ok {
			return Snapshot{}, fmt.Errorf("%w: attendance %s references unknown employee %s", ErrInvalidSnapshot, r.ID, r.EmployeeID)
		}
		if !r.LeaveType.IsValid() {
			return Snapshot{}, fmt.Errorf("%w: attendance %s has leave type %q", ErrInvalidSnapshot, r.ID, r.LeaveType)
		}
		date, err := attendance.ParseDate(r.Date)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: attendance %s has date %q", ErrInvalidSnapshot, r.ID, r.Date)
		}
		key := r.EmployeeID + "/" + r.Date
		if _, dup := days[key]; dup {
			return Snapshot{}, fmt.Errorf("%w: more than one record for employee %s on %s", ErrInvalidSnapshot, r.EmployeeID, r.Date)
		}
		days[key] = struct{}{}

		s.Records = append(s.Records, attendance.Record{
			ID:                 r.ID,
			EmployeeID:         r.EmployeeID,
			Date:               date,
			LeaveType:          r.LeaveType,
			CheckIn:            r.CheckIn,
			CheckOut:           r.CheckOut,
			WorkedHours:        r.WorkedHours,
			OvertimeHours:      r.OvertimeHours,
			ShortfallHours:     r.ShortfallHours,
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
		})
	}

	if d.Users != nil {
		s.Users = make([]user.User, 0, len(d.Users))
		usernames := make(map[string]struct{}, len(d.Users))
		for i, u := range d.Users {
			if u.ID == "" || u.Username == "" {
				return Snapshot{}, fmt.Errorf("%w: users[%d] needs id and username", ErrInvalidSnapshot, i)
			}
			if _, dup := usernames[u.Username]; dup {
				return Snapshot{}, fmt.Errorf("%w: duplicate username %s", ErrInvalidSnapshot, u.Username)
			}
			usernames[u.Username] = struct{}{}

			s.Users = append(s.Users, user.User{
				ID:           u.ID,
				Name:         u.Name,
				Username:     u.Username,
				PasswordHash: u.PasswordHash,
				CreatedAt:    u.CreatedAt,
				UpdatedAt:    u.UpdatedAt,
			})
		}
	}

	return s, nil
}
