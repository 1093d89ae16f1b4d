package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/redis"
)

// RedisEmployeeRepository implements domain.EmployeeRepository using Redis.
// Each employee is one JSON value under employee:{username}.
type RedisEmployeeRepository struct {
	redis  *redis.Client
	logger *slog.Logger
}

// NewRedisEmployeeRepository creates a new employee repository
func NewRedisEmployeeRepository(redisClient *redis.Client, logger *slog.Logger) *RedisEmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisEmployeeRepository{
		redis:  redisClient,
		logger: logger,
	}
}

func employeeKey(username string) string {
	return fmt.Sprintf("employee:%s", username)
}

// Create stores an employee unless the username is taken
func (r *RedisEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	data, err := json.Marshal(employee)
	if err != nil {
		return fmt.Errorf("failed to marshal employee: %w", err)
	}

	created, err := r.redis.SetNX(ctx, employeeKey(employee.Username), string(data))
	if err != nil {
		return fmt.Errorf("failed to store employee: %w", err)
	}
	if !created {
		return fmt.Errorf("employee %s: %w", employee.Username, domain.ErrAlreadyExists)
	}

	r.logger.Debug("employee saved", slog.String("username", employee.Username))
	return nil
}

// GetByUsername retrieves an employee by username
func (r *RedisEmployeeRepository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	data, err := r.redis.Get(ctx, employeeKey(username))
	if err != nil {
		if redis.IsNil(err) {
			return nil, fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	var employee domain.Employee
	if err := json.Unmarshal([]byte(data), &employee); err != nil {
		return nil, fmt.Errorf("failed to unmarshal employee: %w", err)
	}

	return &employee, nil
}

// Delete removes an employee
func (r *RedisEmployeeRepository) Delete(ctx context.Context, username string) error {
	existed, err := r.redis.Delete(ctx, employeeKey(username))
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if !existed {
		return fmt.Errorf("employee %s: %w", username, domain.ErrNotFound)
	}

	r.logger.Debug("employee deleted", slog.String("username", username))
	return nil
}

// List returns all stored employees
func (r *RedisEmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	keys, err := r.redis.Scan(ctx, employeeKey("*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list employee keys: %w", err)
	}

	values, err := r.redis.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	employees := make([]*domain.Employee, 0, len(values))
	for _, data := range values {
		var employee domain.Employee
		if err := json.Unmarshal([]byte(data), &employee); err != nil {
			r.logger.Warn("skipping malformed employee record", slog.String("error", err.Error()))
			continue
		}
		employees = append(employees, &employee)
	}

	sortEmployees(employees)
	return employees, nil
}
