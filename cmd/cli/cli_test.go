package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
)

func TestSpinnerTicksAtHumanSpeed(t *testing.T) {
	s := newSpinner(&bytes.Buffer{}, " Fetching directory...")
	require.Equal(t, 100*time.Millisecond, s.Delay)
	require.Equal(t, " Fetching directory...", s.Suffix)
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := &promptConfirmer{in: bufio.NewReader(strings.NewReader(tt.input)), out: &out}
		require.Equal(t, tt.want, p.Confirm(context.Background(), workflow.OffboardPrompt("jane.doe")), "input %q", tt.input)
		require.Contains(t, out.String(), "Are you sure you want to terminate jane.doe?")
	}
}

type cliBackend struct {
	srv       *httptest.Server
	offboards atomic.Int32
}

func newCLIBackend(t *testing.T) *cliBackend {
	t.Helper()
	b := &cliBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /employees", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.EmployeeRecord{{Username: "jane.doe", Department: "Engineering", Status: domain.StatusActive}})
	})
	mux.HandleFunc("POST /onboard", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.OnboardResult{Message: "Onboarding complete for jane.doe", Steps: []string{"DB: Registered employee record for jane.doe"}})
	})
	mux.HandleFunc("POST /offboard", func(w http.ResponseWriter, r *http.Request) {
		b.offboards.Add(1)
		json.NewEncoder(w).Encode(domain.OffboardResult{Message: "Offboarding successful"})
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEmployeesCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	b := newCLIBackend(t)

	out, err := run(t, "", "--api-url", b.srv.URL, "employees")
	require.NoError(t, err)
	require.Contains(t, out, "USERNAME")
	require.Contains(t, out, "jane.doe")
	require.NotContains(t, out, "fallback")
}

func TestOnboardCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	b := newCLIBackend(t)

	out, err := run(t, "", "--api-url", b.srv.URL, "onboard", "--first-name", "Jane", "--last-name", "Doe")
	require.NoError(t, err)
	require.Contains(t, out, "Starting onboarding workflow for Jane Doe...")
	require.Contains(t, out, "DB: Registered employee record for jane.doe")

	_, err = run(t, "", "--api-url", b.srv.URL, "onboard", "--first-name", "Jane")
	require.ErrorIs(t, err, workflow.ErrInvalidDraft)
}

func TestOffboardCommandConfirmation(t *testing.T) {
	t.Chdir(t.TempDir())
	b := newCLIBackend(t)

	out, err := run(t, "n\n", "--api-url", b.srv.URL, "offboard", "jane.doe")
	require.NoError(t, err)
	require.Contains(t, out, "Offboarding cancelled")
	require.Zero(t, b.offboards.Load())

	out, err = run(t, "y\n", "--api-url", b.srv.URL, "offboard", "jane.doe")
	require.NoError(t, err)
	require.Contains(t, out, "TERMINATION COMPLETE: jane.doe deactivated.")
	require.Equal(t, int32(1), b.offboards.Load())

	_, err = run(t, "", "--api-url", b.srv.URL, "offboard", "--yes", "jane.doe")
	require.NoError(t, err)
	require.Equal(t, int32(2), b.offboards.Load())
}

func TestOffboardCommandUnreachable(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "", "--api-url", "http://127.0.0.1:1", "offboard", "--yes", "jane.doe")
	require.ErrorContains(t, err, "unreachable")
	require.Contains(t, out, "Failed to connect to backend")
}

func TestHashPasswordCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "s3cret\n", "hash-password")
	require.NoError(t, err)
	require.NoError(t, auth.NewOperatorCredentials(strings.TrimSpace(out)).Verify("s3cret"))
}
