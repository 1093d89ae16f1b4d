package domain

import (
	"context"
	"time"
)

// EmployeeStatus is the account lifecycle state reported by the backend
type EmployeeStatus string

const (
	StatusActive       EmployeeStatus = "Active"
	StatusProvisioning EmployeeStatus = "Provisioning"
	StatusSuspended    EmployeeStatus = "Suspended"
)

// EmployeeRecord is one row of the employee/account directory
type EmployeeRecord struct {
	ID         string         `json:"id,omitempty"` // optional; Key falls back to Username
	Username   string         `json:"username"`
	Department string         `json:"department"`
	Status     EmployeeStatus `json:"status"`
}

// Key returns the stable identity of the record.
func (e EmployeeRecord) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Username
}

// Employee is the backend-side HR record written during onboarding
type Employee struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Department string         `json:"department"`
	Role       string         `json:"role"`
	Status     EmployeeStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Record projects the HR record onto the directory view.
func (e *Employee) Record() EmployeeRecord {
	return EmployeeRecord{
		ID:         e.ID,
		Username:   e.Username,
		Department: e.Department,
		Status:     e.Status,
	}
}

// EmployeeRepository defines data access for the backend employee table
type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) error
	GetByUsername(ctx context.Context, username string) (*Employee, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*Employee, error)
}
