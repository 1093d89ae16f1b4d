package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by repositories on duplicate usernames
var ErrAlreadyExists = errors.New("already exists")

// Severity tags a workflow log entry
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// LogEntry is one immutable workflow event
type LogEntry struct {
	Timestamp string   `json:"time"`
	Message   string   `json:"message"`
	Severity  Severity `json:"type"`
}

// OnboardingDraft is the staged onboarding request
type OnboardingDraft struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

// OnboardResult is the backend's success body for POST /onboard
type OnboardResult struct {
	Message string   `json:"message"`
	Steps   []string `json:"steps"`
}

// OffboardRequest is the body of POST /offboard
type OffboardRequest struct {
	Username string `json:"username"`
}

// OffboardResult is the backend's success body for POST /offboard
type OffboardResult struct {
	Message string   `json:"message"`
	Logs    []string `json:"logs,omitempty"`
}

// ErrorResponse is the backend's body for any non-success response
type ErrorResponse struct {
	Error string `json:"error"`
}

// RejectionError is an application error: the backend answered with a
// non-success status and an error message.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("backend rejected request: status=%d: %s", e.StatusCode, e.Message)
}

// NewRejectionError builds a RejectionError, falling back to the status text
// when the backend sent no message.
func NewRejectionError(statusCode int, message string) *RejectionError {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &RejectionError{StatusCode: statusCode, Message: message}
}
