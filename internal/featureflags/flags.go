package featureflags

import (
	"os"
	"strings"
)

// ExclusiveWorkflows makes onboarding and offboarding share a single
// in-flight token instead of an advisory busy flag.
const ExclusiveWorkflows = "exclusive_workflows"

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
