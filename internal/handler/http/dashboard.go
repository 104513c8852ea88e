package http

import (
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
)

type DashboardHandler interface {
	// GetDashboard handles GET /dashboard?month=YYYY-MM
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard defaults to the current month.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && !validator.IsValidMonth(month) {
		response.BadRequest(w, "invalid month parameter", map[string]string{
			"month": "month must be in YYYY-MM format",
		})
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
