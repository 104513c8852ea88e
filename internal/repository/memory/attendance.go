package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

func withEmployeeName(st *state, rec attendance.Record) attendance.Record {
	rec.EmployeeName = nil
	if e, ok := st.employees[rec.EmployeeID]; ok {
		name := e.FullName
		rec.EmployeeName = &name
	}
	return rec
}

func matches(rec attendance.Record, filter attendance.RecordFilter) bool {
	if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
		return false
	}
	if !filter.From.IsZero() && rec.Date.Before(attendance.NormalizeDate(filter.From)) {
		return false
	}
	if !filter.To.IsZero() && rec.Date.After(attendance.NormalizeDate(filter.To)) {
		return false
	}
	return true
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	var (
		rec attendance.Record
		ok  bool
	)
	r.store.view(func(st *state) {
		rec, ok = st.records[id]
		if ok {
			rec = withEmployeeName(st, rec)
		}
	})
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	var (
		rec attendance.Record
		ok  bool
	)
	day := date.Format(attendance.DateLayout)
	r.store.view(func(st *state) {
		rec, ok = st.recordOn(employeeID, day)
		if ok {
			rec = withEmployeeName(st, rec)
		}
	})
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	var list []attendance.Record
	r.store.view(func(st *state) {
		for _, rec := range st.records {
			if matches(rec, filter) {
				list = append(list, withEmployeeName(st, rec))
			}
		}
	})
	sortRecords(list)

	total := int64(len(list))
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return []attendance.Record{}, total, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	if list == nil {
		list = []attendance.Record{}
	}
	return list, total, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.Date = attendance.NormalizeDate(rec.Date)
	err := r.store.mutate(func(st *state) error {
		if _, ok := st.employees[rec.EmployeeID]; !ok {
			return employee.ErrEmployeeNotFound
		}
		if _, exists := st.records[rec.ID]; exists {
			return attendance.ErrAttendanceExists
		}
		if _, exists := st.recordOn(rec.EmployeeID, rec.Date.Format(attendance.DateLayout)); exists {
			return attendance.ErrAttendanceExists
		}
		rec.EmployeeName = nil
		st.records[rec.ID] = rec
		rec = withEmployeeName(st, rec)
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.Date = attendance.NormalizeDate(rec.Date)
	err := r.store.mutate(func(st *state) error {
		current, ok := st.records[rec.ID]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		if _, ok := st.employees[rec.EmployeeID]; !ok {
			return employee.ErrEmployeeNotFound
		}
		if other, exists := st.recordOn(rec.EmployeeID, rec.Date.Format(attendance.DateLayout)); exists && other.ID != rec.ID {
			return attendance.ErrAttendanceExists
		}
		rec.CreatedAt = current.CreatedAt
		rec.EmployeeName = nil
		st.records[rec.ID] = rec
		rec = withEmployeeName(st, rec)
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// UpsertMany implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertMany(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	saved := make([]attendance.Record, 0, len(records))
	err := r.store.mutate(func(st *state) error {
		for _, rec := range records {
			rec.Date = attendance.NormalizeDate(rec.Date)
			rec.EmployeeName = nil
			if _, ok := st.employees[rec.EmployeeID]; !ok {
				return employee.ErrEmployeeNotFound
			}
			if existing, ok := st.recordOn(rec.EmployeeID, rec.Date.Format(attendance.DateLayout)); ok {
				rec.ID = existing.ID
				rec.CreatedAt = existing.CreatedAt
			}
			st.records[rec.ID] = rec
			saved = append(saved, withEmployeeName(st, rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.store.mutate(func(st *state) error {
		if _, ok := st.records[id]; !ok {
			return attendance.ErrAttendanceNotFound
		}
		delete(st.records, id)
		return nil
	})
}
