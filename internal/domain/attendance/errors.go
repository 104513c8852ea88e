package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists for this employee and date")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrDateRangeTooLong   = errors.New("date range is too long")
	ErrInvalidLeaveType   = errors.New("invalid leave type")
)
