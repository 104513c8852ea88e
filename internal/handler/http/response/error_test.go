package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	var validationErrs validator.ValidationErrors
	validationErrs.Add("full_name", "full_name is required")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validationErrs, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrapped employee", fmt.Errorf("lookup: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate day", attendance.ErrAttendanceExists, http.StatusConflict, "CONFLICT"},
		{"duplicate username", user.ErrUsernameExists, http.StatusConflict, "CONFLICT"},
		{"bad range", attendance.ErrInvalidDateRange, http.StatusBadRequest, "BAD_REQUEST"},
		{"no data", payroll.ErrNoAttendanceData, http.StatusNotFound, "NOT_FOUND"},
		{"bad backup", fmt.Errorf("%w: broken", backup.ErrInvalidSnapshot), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var resp Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
