package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// MemoryEmployeeRepository keeps employees in process memory
type MemoryEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*domain.Employee
}

// NewMemoryEmployeeRepository creates an empty in-memory store
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: map[string]*domain.Employee{}}
}

func (r *MemoryEmployeeRepository) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[employee.Username]; ok {
		return fmt.Errorf("employee %s: %w", employee.Username, domain.ErrAlreadyExists)
	}
	stored := *employee
	r.employees[employee.Username] = &stored
	return nil
}

func (r *MemoryEmployeeRepository) GetByUsername(_ context.Context, username string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[username]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
	}
	out := *e
	return &out, nil
}

func (r *MemoryEmployeeRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[username]; !ok {
		return fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
	}
	delete(r.employees, username)
	return nil
}

// List returns employees ordered by creation time, then username
func (r *MemoryEmployeeRepository) List(_ context.Context) ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		c := *e
		out = append(out, &c)
	}
	sortEmployees(out)
	return out, nil
}

func sortEmployees(employees []*domain.Employee) {
	sort.Slice(employees, func(i, j int) bool {
		if !employees[i].CreatedAt.Equal(employees[j].CreatedAt) {
			return employees[i].CreatedAt.Before(employees[j].CreatedAt)
		}
		return employees[i].Username < employees[j].Username
	})
}
