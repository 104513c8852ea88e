package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// ExportWorkbook handles GET /reports/workbook
	ExportWorkbook(w http.ResponseWriter, r *http.Request)

	// ExportStatement handles GET /reports/statements/{employeeID}
	ExportStatement(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := report.ExportRequest{}
	if month := query.Get("month"); month != "" {
		req.Month = &month
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}
	if save := query.Get("save"); save != "" {
		parsed, err := strconv.ParseBool(save)
		if err != nil {
			response.BadRequest(w, "invalid save parameter", nil)
			return
		}
		req.Save = parsed
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ExportWorkbook(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, attachment(result))
}

func (h *reportHandlerImpl) ExportStatement(w http.ResponseWriter, r *http.Request) {
	req := report.StatementExportRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Period:     r.URL.Query().Get("period"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.ExportStatement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, attachment(result))
}

func attachment(f report.File) response.Attachment {
	return response.Attachment{
		Name:        f.Name,
		ContentType: f.ContentType,
		Data:        f.Data,
		StoragePath: f.StoragePath,
	}
}
