package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// ErrUnreachable wraps every transport failure: no response, or a response
// whose body could not be decoded.
var ErrUnreachable = errors.New("backend unreachable")

// Client talks to the automation backend over its JSON contract
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a backend client. The HTTP client carries no timeout: a call
// runs until the backend settles it.
func New(baseURL string, logger *slog.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}, logger)
}

// NewWithHTTPClient creates a backend client on a caller-supplied HTTP client
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListEmployees fetches the full employee collection (GET /employees)
func (c *Client) ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error) {
	var records []domain.EmployeeRecord
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.EmployeeRecord{}
	}
	return records, nil
}

// Onboard submits an onboarding request (POST /onboard)
func (c *Client) Onboard(ctx context.Context, draft domain.OnboardingDraft) (*domain.OnboardResult, error) {
	var result domain.OnboardResult
	if err := c.do(ctx, http.MethodPost, "/onboard", draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Offboard submits an offboarding request (POST /offboard)
func (c *Client) Offboard(ctx context.Context, username string) (*domain.OffboardResult, error) {
	var result domain.OffboardResult
	if err := c.do(ctx, http.MethodPost, "/offboard", domain.OffboardRequest{Username: username}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks that the backend answers HTTP at all
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/employees", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// do issues one request. A 2xx body decodes into out; a non-2xx JSON body
// becomes a *domain.RejectionError; anything else is ErrUnreachable.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnreachable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp domain.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil {
			return fmt.Errorf("%w: %s %s status=%d: undecodable body: %v", ErrUnreachable, method, path, resp.StatusCode, err)
		}
		c.logger.Debug("backend rejected request",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", errResp.Error),
		)
		return domain.NewRejectionError(resp.StatusCode, errResp.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: undecodable body: %v", ErrUnreachable, method, path, err)
	}
	return nil
}
