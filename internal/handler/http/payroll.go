package http

import (
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// GetStatement handles GET /payroll/statements/{employeeID}?period=YYYY-MM
	GetStatement(w http.ResponseWriter, r *http.Request)
	// ListStatements handles GET /payroll/statements?period=YYYY-MM
	ListStatements(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GetStatement(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	period := r.URL.Query().Get("period")

	result, err := h.payrollService.GetStatement(r.Context(), employeeID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListStatements(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	result, err := h.payrollService.ListStatements(r.Context(), period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
