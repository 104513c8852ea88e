package report

import "github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportRequest selects what goes into the workbook. Month limits the
// attendance sheet to one "YYYY-MM" period. Save keeps a copy in file storage.
type ExportRequest struct {
	Month      *string `json:"month,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Save       bool    `json:"save"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month != nil && *r.Month != "" && !validator.IsValidMonth(*r.Month) {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	return errs.Err()
}

type StatementExportRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Period     string `json:"period" validate:"required"`
}

func (r *StatementExportRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Period != "" && !validator.IsValidMonth(r.Period) {
		errs.Add("period", "period must be in YYYY-MM format")
	}
	return errs.Err()
}

// File is a generated document ready to be sent to the client.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	// StoragePath is set when a copy was saved to file storage.
	StoragePath string
}
