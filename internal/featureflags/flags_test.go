package featureflags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	require.False(t, Enabled(ExclusiveWorkflows))

	t.Setenv("FLAG_EXCLUSIVE_WORKFLOWS", "Yes")
	require.True(t, Enabled(ExclusiveWorkflows))

	t.Setenv("FLAG_EXCLUSIVE_WORKFLOWS", "off")
	require.False(t, Enabled(ExclusiveWorkflows))
}
