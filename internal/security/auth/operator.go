package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// OperatorCredentials checks the single operator password against a bcrypt hash
type OperatorCredentials struct {
	passwordHash []byte
}

func NewOperatorCredentials(passwordHash string) *OperatorCredentials {
	return &OperatorCredentials{passwordHash: []byte(passwordHash)}
}

// Verify returns ErrInvalidCredentials unless password matches the hash
func (c *OperatorCredentials) Verify(password string) error {
	if len(c.passwordHash) == 0 {
		return ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	return nil
}

// HashPassword produces a hash suitable for OPERATOR_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
