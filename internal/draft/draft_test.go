package draft

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

func TestNewStoreHoldsDefaults(t *testing.T) {
	s := NewStore()
	require.Equal(t, domain.OnboardingDraft{Department: "Engineering", Role: "Developer"}, s.Get())
}

func TestSetAndReset(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(FieldFirstName, "Jane"))
	require.NoError(t, s.Set(FieldLastName, "Doe"))
	require.NoError(t, s.Set(FieldDepartment, "Sales"))
	require.NoError(t, s.Set(FieldRole, "Analyst"))
	require.Equal(t, domain.OnboardingDraft{FirstName: "Jane", LastName: "Doe", Department: "Sales", Role: "Analyst"}, s.Get())

	s.Reset()
	require.Equal(t, Defaults(), s.Get())
}

func TestSetUnknownField(t *testing.T) {
	s := NewStore()
	err := s.Set("salary", "1")
	require.ErrorIs(t, err, ErrUnknownField)
	require.Equal(t, Defaults(), s.Get())
}

func TestValidate(t *testing.T) {
	require.ElementsMatch(t, []string{FieldFirstName, FieldLastName}, Validate(Defaults()))

	d := domain.OnboardingDraft{FirstName: "Jane", LastName: "Doe", Department: "Engineering"}
	require.Equal(t, []string{FieldRole}, Validate(d))

	d.Role = "Developer"
	require.Nil(t, Validate(d))
}
