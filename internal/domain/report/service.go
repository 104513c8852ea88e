package report

import "context"

// ReportService defines the interface for spreadsheet exports
type ReportService interface {
	// ExportWorkbook builds the employee list and attendance sheets.
	ExportWorkbook(ctx context.Context, req ExportRequest) (File, error)

	// ExportStatement builds a single employee's monthly statement sheet.
	ExportStatement(ctx context.Context, req StatementExportRequest) (File, error)
}
