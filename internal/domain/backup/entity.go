package backup

import (
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
)

// Snapshot is the complete data set, used for backup and restore.
type Snapshot struct {
	Employees  []employee.Employee
	Records    []attendance.Record
	Users      []user.User
	BackupDate time.Time
}
