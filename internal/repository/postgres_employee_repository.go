package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// PostgresEmployeeRepository implements domain.EmployeeRepository using PostgreSQL
type PostgresEmployeeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresEmployeeRepository creates a new employee repository
func NewPostgresEmployeeRepository(db *sql.DB, logger *slog.Logger) *PostgresEmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new employee; a taken username yields domain.ErrAlreadyExists
func (r *PostgresEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (id, username, first_name, last_name, department, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.Username,
		employee.FirstName,
		employee.LastName,
		employee.Department,
		employee.Role,
		string(employee.Status),
		employee.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("employee %s: %w", employee.Username, domain.ErrAlreadyExists)
		}
		r.logger.Error("failed to create employee",
			slog.String("username", employee.Username),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByUsername retrieves an employee by username
func (r *PostgresEmployeeRepository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	query := `
		SELECT id, username, first_name, last_name, department, role, status, created_at
		FROM employees
		WHERE username = $1
	`

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee, nil
}

// Delete removes an employee by username
func (r *PostgresEmployeeRepository) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
	}

	return nil
}

// List returns every employee ordered by creation time
func (r *PostgresEmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	query := `
		SELECT id, username, first_name, last_name, department, role, status, created_at
		FROM employees
		ORDER BY created_at, username
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		e      domain.Employee
		status string
	)
	if err := row.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &e.Department, &e.Role, &status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = domain.EmployeeStatus(status)
	return &e, nil
}
