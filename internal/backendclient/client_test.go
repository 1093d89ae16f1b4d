package backendclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client(), logger.Discard())
}

func TestOnboardSuccess(t *testing.T) {
	var got domain.OnboardingDraft
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/onboard", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Provisioned","steps":["a","b"]}`))
	})

	draft := domain.OnboardingDraft{FirstName: "Jane", LastName: "Doe", Department: "Engineering", Role: "Developer"}
	res, err := c.Onboard(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, draft, got)
	require.Equal(t, "Provisioned", res.Message)
	require.Equal(t, []string{"a", "b"}, res.Steps)
}

func TestOnboardRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"username exists"}`))
	})

	_, err := c.Onboard(context.Background(), domain.OnboardingDraft{})
	var rej *domain.RejectionError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, http.StatusBadRequest, rej.StatusCode)
	require.Equal(t, "username exists", rej.Message)
	require.False(t, errors.Is(err, ErrUnreachable))
}

func TestRejectedWithoutMessageUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	})

	_, err := c.Offboard(context.Background(), "bob.smith")
	var rej *domain.RejectionError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Internal Server Error", rej.Message)
}

func TestUndecodableBodyIsTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Offboard(context.Background(), "bob.smith")
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestConnectionRefusedIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewWithHTTPClient(url, http.DefaultClient, logger.Discard())
	_, err := c.ListEmployees(context.Background())
	require.ErrorIs(t, err, ErrUnreachable)
	require.Error(t, c.Ping(context.Background()))
}

func TestListEmployees(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/employees", r.URL.Path)
		w.Write([]byte(`[{"username":"alice.wonder","department":"Engineering","status":"Active"}]`))
	})

	records, err := c.ListEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "alice.wonder", records[0].Key())
	require.Equal(t, domain.StatusActive, records[0].Status)
}
