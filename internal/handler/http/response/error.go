package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound), errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, user.ErrInvalidPassword), errors.Is(err, user.ErrPasswordsMismatch):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidDateRange),
		errors.Is(err, attendance.ErrDateRangeTooLong),
		errors.Is(err, attendance.ErrInvalidLeaveType):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrNoAttendanceData):
		NotFound(w, "No attendance data for this period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Period must be in YYYY-MM format", nil)

	// Backup domain errors
	case errors.Is(err, backup.ErrArchiveNotFound):
		NotFound(w, "Backup archive not found")
	case errors.Is(err, backup.ErrInvalidSnapshot):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
