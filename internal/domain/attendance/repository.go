package attendance

import (
	"context"
	"time"
)

// RecordFilter narrows List. Zero values mean "no constraint".
type RecordFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	// List returns matching records newest first together with the unpaginated total.
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) (Record, error)
	// UpsertMany writes all records in one transaction, replacing any existing
	// record for the same employee and date. Existing IDs are kept.
	UpsertMany(ctx context.Context, records []Record) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
