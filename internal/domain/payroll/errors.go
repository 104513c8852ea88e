package payroll

import "errors"

var (
	ErrNoAttendanceData = errors.New("no attendance data for this period")
	ErrInvalidPeriod    = errors.New("invalid payroll period")
)
