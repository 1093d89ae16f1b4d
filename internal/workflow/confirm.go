package workflow

import (
	"context"
	"fmt"
)

// Confirmer is the blocking acknowledgment gate in front of offboarding.
// Returning false aborts the workflow before any side effect.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Static answers every prompt with the same decision; used when the
// confirmation was collected up front (e.g. an API request body).
type Static bool

func (s Static) Confirm(context.Context, string) bool {
	return bool(s)
}

// OffboardPrompt is the question put to the operator before offboarding
func OffboardPrompt(username string) string {
	return fmt.Sprintf("Are you sure you want to terminate %s? This will delete IAM users and revoke access.", username)
}
