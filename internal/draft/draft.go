package draft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// Field names accepted by Set, matching the JSON names of the draft
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldDepartment = "department"
	FieldRole       = "role"
)

var ErrUnknownField = errors.New("unknown draft field")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Defaults returns the record a draft is reset to
func Defaults() domain.OnboardingDraft {
	return domain.OnboardingDraft{
		FirstName:  "",
		LastName:   "",
		Department: "Engineering",
		Role:       "Developer",
	}
}

// Validate returns the JSON names of every empty required field; nil means
// the draft may be dispatched.
func Validate(d domain.OnboardingDraft) []string {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, jsonName(fe.StructField()))
	}
	return missing
}

// Store is the mutable staging record for the next onboarding request
type Store struct {
	mu    sync.RWMutex
	draft domain.OnboardingDraft
}

// NewStore creates a store holding the defaults
func NewStore() *Store {
	return &Store{draft: Defaults()}
}

// Set updates one field by its JSON name
func (s *Store) Set(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case FieldFirstName:
		s.draft.FirstName = value
	case FieldLastName:
		s.draft.LastName = value
	case FieldDepartment:
		s.draft.Department = value
	case FieldRole:
		s.draft.Role = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Get returns a copy of the current draft
func (s *Store) Get() domain.OnboardingDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Replace overwrites the whole draft
func (s *Store) Replace(d domain.OnboardingDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// Reset restores the defaults
func (s *Store) Reset() {
	s.Replace(Defaults())
}

func jsonName(structField string) string {
	switch structField {
	case "FirstName":
		return FieldFirstName
	case "LastName":
		return FieldLastName
	case "Department":
		return FieldDepartment
	case "Role":
		return FieldRole
	}
	return structField
}
