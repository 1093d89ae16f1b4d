package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/redis"
)

func newEmployee(username string, createdAt time.Time) *domain.Employee {
	return &domain.Employee{
		ID:         uuid.NewString(),
		Username:   username,
		FirstName:  "First",
		LastName:   "Last",
		Department: "Engineering",
		Role:       "Developer",
		Status:     domain.StatusActive,
		CreatedAt:  createdAt,
	}
}

// exerciseRepository runs the behaviour every employee store must share
func exerciseRepository(t *testing.T, repo domain.EmployeeRepository, prefix string) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	first, second := prefix+"jane.doe", prefix+"bob.smith"

	require.NoError(t, repo.Create(ctx, newEmployee(first, base)))
	require.NoError(t, repo.Create(ctx, newEmployee(second, base.Add(time.Minute))))
	t.Cleanup(func() {
		_ = repo.Delete(ctx, first)
		_ = repo.Delete(ctx, second)
	})

	err := repo.Create(ctx, newEmployee(first, base))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := repo.GetByUsername(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "Engineering", got.Department)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, e := range list {
		if e.Username == first || e.Username == second {
			names = append(names, e.Username)
		}
	}
	require.Equal(t, []string{first, second}, names)

	require.NoError(t, repo.Delete(ctx, first))
	require.ErrorIs(t, repo.Delete(ctx, first), domain.ErrNotFound)

	_, err = repo.GetByUsername(ctx, first)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryEmployeeRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryEmployeeRepository(), "")
}

func TestMemoryEmployeeRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()
	e := newEmployee("jane.doe", time.Now())
	require.NoError(t, repo.Create(ctx, e))

	e.Department = "Sales"
	got, err := repo.GetByUsername(ctx, "jane.doe")
	require.NoError(t, err)
	require.Equal(t, "Engineering", got.Department)
}

func TestRedisEmployeeRepository(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	log := logger.Discard()
	client, err := redis.NewClient(context.Background(), url, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseRepository(t, NewRedisEmployeeRepository(client, log), "test-"+uuid.NewString()[:8]+"-")
}
