package memory

import (
	"context"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var (
		e  employee.Employee
		ok bool
	)
	r.store.view(func(st *state) {
		e, ok = st.employees[id]
	})
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	var list []employee.Employee
	r.store.view(func(st *state) {
		list = make([]employee.Employee, 0, len(st.employees))
		for _, e := range st.employees {
			list = append(list, e)
		}
	})
	sortEmployees(list)
	return list, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.store.mutate(func(st *state) error {
		if _, exists := st.employees[newEmployee.ID]; exists {
			return employee.ErrEmployeeIDExists
		}
		st.employees[newEmployee.ID] = newEmployee
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := r.store.mutate(func(st *state) error {
		current, ok := st.employees[e.ID]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e.CreatedAt = current.CreatedAt
		st.employees[e.ID] = e
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.store.mutate(func(st *state) error {
		if _, ok := st.employees[id]; !ok {
			return employee.ErrEmployeeNotFound
		}
		delete(st.employees, id)
		for recordID, rec := range st.records {
			if rec.EmployeeID == id {
				delete(st.records, recordID)
			}
		}
		return nil
	})
}
