package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
)

// state is the persisted part of the store. Mutations work on a clone which
// replaces the live state only after it has been written to disk.
type state struct {
	employees map[string]employee.Employee
	records   map[string]attendance.Record
	users     map[string]user.User
}

func newState() *state {
	return &state{
		employees: make(map[string]employee.Employee),
		records:   make(map[string]attendance.Record),
		users:     make(map[string]user.User),
	}
}

func (st *state) clone() *state {
	next := &state{
		employees: make(map[string]employee.Employee, len(st.employees)),
		records:   make(map[string]attendance.Record, len(st.records)),
		users:     make(map[string]user.User, len(st.users)),
	}
	for k, v := range st.employees {
		next.employees[k] = v
	}
	for k, v := range st.records {
		next.records[k] = v
	}
	for k, v := range st.users {
		next.users[k] = v
	}
	return next
}

func (st *state) snapshot() backup.Snapshot {
	s := backup.Snapshot{
		Employees: make([]employee.Employee, 0, len(st.employees)),
		Records:   make([]attendance.Record, 0, len(st.records)),
		Users:     make([]user.User, 0, len(st.users)),
	}
	for _, e := range st.employees {
		s.Employees = append(s.Employees, e)
	}
	for _, r := range st.records {
		r.EmployeeName = nil
		s.Records = append(s.Records, r)
	}
	for _, u := range st.users {
		s.Users = append(s.Users, u)
	}
	sortEmployees(s.Employees)
	sortRecords(s.Records)
	sortUsers(s.Users)
	return s
}

func stateFromSnapshot(s backup.Snapshot) *state {
	st := newState()
	for _, e := range s.Employees {
		st.employees[e.ID] = e
	}
	for _, r := range s.Records {
		r.EmployeeName = nil
		st.records[r.ID] = r
	}
	for _, u := range s.Users {
		st.users[u.ID] = u
	}
	return st
}

// recordOn returns the record of employeeID on the given day.
func (st *state) recordOn(employeeID, day string) (attendance.Record, bool) {
	for _, r := range st.records {
		if r.EmployeeID == employeeID && r.Date.Format(attendance.DateLayout) == day {
			return r, true
		}
	}
	return attendance.Record{}, false
}

// Store keeps all data in memory and, when a path is set, mirrors it to a
// JSON file in the backup document format after every mutation.
type Store struct {
	mu     sync.RWMutex
	path   string
	st     *state
	tokens map[string]refreshToken
}

// Open loads the data file at path. An empty path gives a store that is never
// persisted; a missing file gives an empty store.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		st:     newState(),
		tokens: make(map[string]refreshToken),
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc backup.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode data file %s: %w", path, err)
	}
	snapshot, err := doc.ToSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to load data file %s: %w", path, err)
	}
	s.st = stateFromSnapshot(snapshot)
	return s, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close() error {
	return nil
}

func (s *Store) view(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

// mutate applies fn to a copy of the state and commits it only when fn and
// the file write both succeed.
func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

func (s *Store) persist(st *state) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(backup.NewDocument(st.snapshot()), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".data-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
