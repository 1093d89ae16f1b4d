package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
)

// ErrInvalidRequest rejects an onboarding request with missing fields
var ErrInvalidRequest = errors.New("invalid onboarding request")

// IdentityProvider manages the account an employee signs in with
type IdentityProvider interface {
	CreateUser(ctx context.Context, username string) (string, error)
	DeleteUser(ctx context.Context, username string) (string, error)
}

// StorageProvider allocates the employee's home folder
type StorageProvider interface {
	CreateHomeFolder(ctx context.Context, username string) (string, error)
}

// MockIdentity reports identity steps without touching a cloud account
type MockIdentity struct{}

func (MockIdentity) CreateUser(_ context.Context, username string) (string, error) {
	return "MOCK: Created IAM User " + username, nil
}

func (MockIdentity) DeleteUser(_ context.Context, username string) (string, error) {
	return "MOCK: Deleted IAM User " + username, nil
}

// MockStorage reports storage steps without creating a bucket
type MockStorage struct{}

func (MockStorage) CreateHomeFolder(_ context.Context, username string) (string, error) {
	return "MOCK: Created S3 Bucket " + HomeBucket(username), nil
}

// HomeBucket names the home folder bucket of username
func HomeBucket(username string) string {
	return strings.ToLower("innovatech-home-" + username)
}

// Username derives the account name first.last, lower-cased
func Username(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "." + strings.ToLower(strings.TrimSpace(lastName))
}

// ProvisioningService runs the backend side of onboarding and offboarding:
// HR record, identity, then storage. Steps are reported in execution order.
type ProvisioningService struct {
	employees domain.EmployeeRepository
	identity  IdentityProvider
	storage   StorageProvider
	logger    *slog.Logger
	now       func() time.Time
}

// NewProvisioningService creates a provisioning service
func NewProvisioningService(
	employees domain.EmployeeRepository,
	identity IdentityProvider,
	storage StorageProvider,
	logger *slog.Logger,
) *ProvisioningService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisioningService{
		employees: employees,
		identity:  identity,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// ListEmployees returns the directory view of every employee
func (s *ProvisioningService) ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	records := make([]domain.EmployeeRecord, 0, len(employees))
	for _, e := range employees {
		records = append(records, e.Record())
	}
	return records, nil
}

// Onboard registers the employee and provisions their identity and storage
func (s *ProvisioningService) Onboard(ctx context.Context, req domain.OnboardingDraft) (*domain.OnboardResult, error) {
	if missing := draft.Validate(req); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}

	username := Username(req.FirstName, req.LastName)
	logger := s.logger.With(slog.String("username", username))

	employee := &domain.Employee{
		ID:         uuid.NewString(),
		Username:   username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Role:       req.Role,
		Status:     domain.StatusActive,
		CreatedAt:  s.now().UTC(),
	}

	// Step 1: HR record
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	steps := []string{"DB: Registered employee record for " + username}
	metrics.ObserveBackendStep("onboard", "record")

	// Step 2: identity
	step, err := s.identity.CreateUser(ctx, username)
	if err != nil {
		logger.Error("identity provisioning failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create identity for %s: %w", username, err)
	}
	steps = append(steps, step)
	metrics.ObserveBackendStep("onboard", "identity")

	// Step 3: home folder
	step, err = s.storage.CreateHomeFolder(ctx, username)
	if err != nil {
		logger.Error("storage provisioning failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create home folder for %s: %w", username, err)
	}
	steps = append(steps, step)
	metrics.ObserveBackendStep("onboard", "storage")

	logger.Info("employee onboarded", slog.String("employee_id", employee.ID))
	return &domain.OnboardResult{
		Message: "Onboarding complete for " + username,
		Steps:   steps,
	}, nil
}

// Offboard removes the HR record and the employee's identity
func (s *ProvisioningService) Offboard(ctx context.Context, username string) (*domain.OffboardResult, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidRequest)
	}

	if err := s.employees.Delete(ctx, username); err != nil {
		return nil, err
	}
	logs := []string{"DB: Removed record " + username}
	metrics.ObserveBackendStep("offboard", "record")

	step, err := s.identity.DeleteUser(ctx, username)
	if err != nil {
		s.logger.Error("identity removal failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to delete identity for %s: %w", username, err)
	}
	logs = append(logs, step)
	metrics.ObserveBackendStep("offboard", "identity")

	s.logger.Info("employee offboarded", slog.String("username", username))
	return &domain.OffboardResult{
		Message: "Offboarding successful",
		Logs:    logs,
	}, nil
}
