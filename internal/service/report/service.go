package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
	payrollservice "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
)

const (
	employeeSheet   = "Personel Listesi"
	attendanceSheet = "Puantaj Kayıtları"
	statementSheet  = "Bordro"
)

var (
	employeeHeaders = []string{
		"Personel Adı Soyadı", "Telefon", "IBAN", "Banka Maaşı", "Elden Maaş", "Toplam Maaş",
		"Yıllık İzin Hakkı", "Günlük Çalışma Saati", "Mesai Çarpanı",
	}
	employeeWidths = []float64{30, 16, 32, 15, 15, 15, 18, 20, 15}

	attendanceHeaders = []string{
		"Tarih", "Personel", "Giriş", "Çıkış", "Çalışma (Saat)", "Mesai (Saat)",
		"Eksik Mesai (Saat)", "Durum", "Toplam Ücret (₺)", "Not",
	}
	attendanceWidths = []float64{12, 30, 10, 10, 15, 14, 18, 16, 18, 40}

	breakdownHeaders = []string{
		"Tarih", "Durum", "Çalışma (Saat)", "Mesai (Saat)", "Eksik Mesai (Saat)",
		"Mesai Ücreti", "Eksik Mesai Kesintisi", "Günlük Hakediş", "Günlük Toplam",
	}
	breakdownWidths = []float64{30, 16, 15, 14, 18, 15, 20, 16, 16}
)

type statementSource interface {
	Statement(ctx context.Context, employeeID string, period string) (payroll.Statement, error)
}

type ReportServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	statements     statementSource
	calculator     *payrollservice.Calculator
	fileService    file.FileService
	now            func() time.Time
}

func NewReportService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	statements statementSource,
	calculator *payrollservice.Calculator,
	fileService file.FileService,
) report.ReportService {
	return &ReportServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		statements:     statements,
		calculator:     calculator,
		fileService:    fileService,
		now:            time.Now,
	}
}

// ExportWorkbook implements report.ReportService. Records whose employee no
// longer exists are skipped.
func (s *ReportServiceImpl) ExportWorkbook(ctx context.Context, req report.ExportRequest) (report.File, error) {
	if err := req.Validate(); err != nil {
		return report.File{}, err
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return report.File{}, fmt.Errorf("failed to list employees: %w", err)
	}

	filter := attendance.RecordFilter{}
	if req.EmployeeID != nil {
		filter.EmployeeID = *req.EmployeeID
	}
	if req.Month != nil && *req.Month != "" {
		period, err := payroll.ParsePeriod(*req.Month)
		if err != nil {
			return report.File{}, err
		}
		filter.From, filter.To = period.Start(), period.End()
	}
	records, _, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return report.File{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date) {
			return byID[records[i].EmployeeID].FullName < byID[records[j].EmployeeID].FullName
		}
		return records[i].Date.Before(records[j].Date)
	})

	wb, err := newWorkbook()
	if err != nil {
		return report.File{}, err
	}
	if err := s.writeEmployees(wb, employees); err != nil {
		wb.f.Close()
		return report.File{}, fmt.Errorf("%w: %v", report.ErrWorkbookGeneration, err)
	}
	if err := s.writeAttendance(wb, byID, records); err != nil {
		wb.f.Close()
		return report.File{}, fmt.Errorf("%w: %v", report.ErrWorkbookGeneration, err)
	}

	data, err := wb.bytes()
	if err != nil {
		return report.File{}, err
	}

	out := report.File{
		Name:        "Personel_Takip_Sistemi_" + s.now().Format("02_01_2006") + ".xlsx",
		ContentType: report.ContentTypeXLSX,
		Data:        data,
	}

	if req.Save {
		key, err := s.fileService.SaveExport(ctx, out.Name, out.Data)
		if err != nil {
			return report.File{}, err
		}
		out.StoragePath = key
		slog.Info("Saved workbook export", "path", key, "records", len(records))
	}

	return out, nil
}

func (s *ReportServiceImpl) writeEmployees(wb *workbook, employees []employee.Employee) error {
	if err := wb.addSheet(employeeSheet); err != nil {
		return err
	}
	if err := wb.writeHeader(employeeSheet, 1, employeeHeaders, employeeWidths, true); err != nil {
		return err
	}

	styles := []int{wb.text, wb.text, wb.text, wb.currency, wb.currency, wb.currency, wb.text, wb.hours, wb.hours}
	for i, emp := range employees {
		row := []interface{}{
			emp.FullName,
			optional(emp.Phone),
			optional(emp.IBAN),
			amount(emp.BankSalary),
			amount(emp.CashSalary),
			amount(emp.TotalSalary()),
			emp.AnnualLeaveAllowance,
			emp.ContractedHours().InexactFloat64(),
			emp.Multiplier().InexactFloat64(),
		}
		if err := wb.writeRow(employeeSheet, i+2, row, styles); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportServiceImpl) writeAttendance(wb *workbook, byID map[string]employee.Employee, records []attendance.Record) error {
	if err := wb.addSheet(attendanceSheet); err != nil {
		return err
	}
	if err := wb.writeHeader(attendanceSheet, 1, attendanceHeaders, attendanceWidths, true); err != nil {
		return err
	}

	styles := []int{wb.text, wb.text, wb.text, wb.text, wb.hours, wb.hours, wb.hours, wb.text, wb.currency, wb.text}
	row := 2
	for _, rec := range records {
		emp, ok := byID[rec.EmployeeID]
		if !ok {
			continue
		}
		day := s.calculator.ComputeDay(emp, rec)
		values := []interface{}{
			rec.Date.Format(attendance.DateLayout),
			emp.FullName,
			optional(rec.CheckIn),
			optional(rec.CheckOut),
			amount(day.WorkedHours),
			amount(day.OvertimeHours),
			amount(day.ShortfallHours),
			rec.LeaveType.Label(),
			amount(day.DailyTotal),
			optional(rec.Note),
		}
		if err := wb.writeRow(attendanceSheet, row, values, styles); err != nil {
			return err
		}
		row++
	}
	return nil
}

// ExportStatement implements report.ReportService.
func (s *ReportServiceImpl) ExportStatement(ctx context.Context, req report.StatementExportRequest) (report.File, error) {
	if err := req.Validate(); err != nil {
		return report.File{}, err
	}

	stmt, err := s.statements.Statement(ctx, req.EmployeeID, req.Period)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, payroll.ErrNoAttendanceData) {
			return report.File{}, err
		}
		return report.File{}, fmt.Errorf("failed to compute statement: %w", err)
	}

	wb, err := newWorkbook()
	if err != nil {
		return report.File{}, err
	}
	if err := s.writeStatement(wb, stmt); err != nil {
		wb.f.Close()
		return report.File{}, fmt.Errorf("%w: %v", report.ErrWorkbookGeneration, err)
	}

	data, err := wb.bytes()
	if err != nil {
		return report.File{}, err
	}

	return report.File{
		Name:        fmt.Sprintf("Bordro_%s_%s.xlsx", fileSafe(stmt.EmployeeName), stmt.Period.String()),
		ContentType: report.ContentTypeXLSX,
		Data:        data,
	}, nil
}

func (s *ReportServiceImpl) writeStatement(wb *workbook, stmt payroll.Statement) error {
	if err := wb.addSheet(statementSheet); err != nil {
		return err
	}
	f := wb.f

	if err := f.SetCellValue(statementSheet, "A1", "MAAŞ BORDROSU"); err != nil {
		return err
	}
	if err := f.SetCellStyle(statementSheet, "A1", "A1", wb.title); err != nil {
		return err
	}

	type line struct {
		label string
		value interface{}
		style int
	}
	lines := []line{
		{"Personel", stmt.EmployeeName, wb.text},
		{"Dönem", stmt.Period.Label(), wb.text},
		{"Telefon", optional(stmt.Phone), wb.text},
		{"IBAN", optional(stmt.IBAN), wb.text},
		{"Banka Maaşı", amount(stmt.BankSalary), wb.currency},
		{"Elden Maaş", amount(stmt.CashSalary), wb.currency},
		{"Aylık Brüt", amount(stmt.BaseMonthlyPay), wb.currency},
		{"Günlük Ücret", amount(stmt.DailyRate), wb.currency},
		{"Saatlik Ücret", amount(stmt.HourlyRate), wb.currency},
		{"Çalışılan Gün", stmt.Counts.Worked, wb.text},
		{"Yıllık İzin", stmt.Counts.AnnualLeave, wb.text},
		{"Rapor", stmt.Counts.SickLeave, wb.text},
		{"Ücretsiz İzin", stmt.Counts.UnpaidLeave, wb.text},
		{"Gelmedi", stmt.Counts.Absent, wb.text},
		{"Mesai (Saat)", amount(stmt.OvertimeHours), wb.hours},
		{"Mesai Ücreti", amount(stmt.OvertimePay), wb.currency},
		{"Yemek", amount(stmt.Meal), wb.currency},
		{"Yol", amount(stmt.Transport), wb.currency},
		{"Prim", amount(stmt.Bonus), wb.currency},
		{"Diğer Ödeme", amount(stmt.OtherPayment), wb.currency},
		{"Toplam Kazanç", amount(stmt.TotalEarnings), wb.currency},
		{"Avans", amount(stmt.Advance), wb.currency},
		{"Diğer Kesinti", amount(stmt.OtherDeduction), wb.currency},
		{"Eksik Mesai Kesintisi", amount(stmt.ShortfallDeduction), wb.currency},
		{"Devamsızlık Kesintisi", amount(stmt.AbsenceDeduction), wb.currency},
		{"Toplam Kesinti", amount(stmt.TotalDeductions), wb.currency},
		{"Net Ödeme", amount(stmt.NetPay), wb.currency},
		{"Bankaya Yatacak", amount(stmt.BankNet), wb.currency},
		{"Elden Ödenecek", amount(stmt.CashNet), wb.currency},
	}

	row := 3
	for _, l := range lines {
		if err := wb.writeRow(statementSheet, row, []interface{}{l.label, l.value}, []int{wb.header, l.style}); err != nil {
			return err
		}
		row++
	}

	row++
	// no frozen panes here, the summary block above stays scrollable
	if err := wb.writeHeader(statementSheet, row, breakdownHeaders, breakdownWidths, false); err != nil {
		return err
	}

	styles := []int{wb.text, wb.text, wb.hours, wb.hours, wb.hours, wb.currency, wb.currency, wb.currency, wb.currency}
	for _, d := range stmt.Days {
		row++
		values := []interface{}{
			d.Date.Format(attendance.DateLayout),
			d.LeaveType.Label(),
			amount(d.WorkedHours),
			amount(d.OvertimeHours),
			amount(d.ShortfallHours),
			amount(d.OvertimePay),
			amount(d.ShortfallDeduction),
			amount(d.NetWorkPay),
			amount(d.DailyTotal),
		}
		if err := wb.writeRow(statementSheet, row, values, styles); err != nil {
			return err
		}
	}
	return nil
}

// fileSafe keeps letters and digits and turns everything else into underscores.
func fileSafe(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "personel"
	}
	return b.String()
}
