// Package client provides the HTTP client ledgerctl uses to talk to the
// ledgerd REST API.
//
// LedgerAPIClient wraps a Resty client configured with the request timeout,
// basic-auth credentials, a retry policy for connection failures and debug
// logging hooks. Response types mirror the daemon's JSON bodies.
//
// Non-200 responses are decoded into the daemon's error body when possible
// so the operator sees "Unauthorized: valid credentials required" rather
// than a raw status line.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/ledger/cmd/ledgerctl/config"
	"github.com/concave-dev/ledger/cmd/ledgerctl/utils"
	"github.com/concave-dev/ledger/internal/logging"
	"github.com/concave-dev/ledger/internal/netutil"
	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when the daemon rejects the credentials
var ErrUnauthorized = errors.New("authentication failed - check --user and --password")

// ErrorResponse mirrors the daemon's error body
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Balance is the account balance as rendered by the daemon, a decimal
// string with two fraction digits.
type Balance struct {
	AvailableBalance string `json:"availableBalance"`
}

// AuditStats mirrors the audit engine snapshot served on /audit/stats
type AuditStats struct {
	State                string `json:"state"`
	QueueDepth           int    `json:"queue_depth"`
	WorkerPoolSize       int    `json:"worker_pool_size"`
	Submitted            int64  `json:"transactions_submitted"`
	Rejected             int64  `json:"transactions_rejected"`
	Packed               int64  `json:"transactions_packed"`
	Oversized            int64  `json:"transactions_oversized"`
	SubmissionsDelivered int64  `json:"submissions_delivered"`
	SinkFailures         int64  `json:"sink_failures"`
	TriggersDropped      int64  `json:"triggers_dropped"`
	WorkerRuns           int64  `json:"worker_runs"`

	// Filled from the envelope, not the engine snapshot
	Processed int64 `json:"transactions_processed"`
}

type auditStatsEnvelope struct {
	Status    string     `json:"status"`
	Data      AuditStats `json:"data"`
	Processed int64      `json:"transactions_processed"`
}

// Health mirrors the daemon health response
type Health struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Instance   string    `json:"instance,omitempty"`
	Uptime     string    `json:"uptime"`
	AuditState string    `json:"audit_state,omitempty"`
}

// LedgerAPIClient wraps Resty with ledgerd specific configuration
type LedgerAPIClient struct {
	client  *resty.Client
	baseURL string
}

// NewLedgerAPIClient creates an API client for the daemon at apiAddr.
// Only connection errors are retried; HTTP errors are returned as-is.
func NewLedgerAPIClient(apiAddr string, timeout int, user, password string) *LedgerAPIClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", apiAddr)

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetBasicAuth(user, password).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("ledgerctl/%s", config.Version))

	client.
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &LedgerAPIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// SetRetryCount overrides the number of connection retries
func (api *LedgerAPIClient) SetRetryCount(n int) *LedgerAPIClient {
	api.client.SetRetryCount(n)
	return api
}

// GetBalance fetches the current account balance
func (api *LedgerAPIClient) GetBalance() (*Balance, error) {
	var balance Balance
	if err := api.get("/balance", &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetAuditStats fetches the audit engine counters
func (api *LedgerAPIClient) GetAuditStats() (*AuditStats, error) {
	var envelope auditStatsEnvelope
	if err := api.get("/audit/stats", &envelope); err != nil {
		return nil, err
	}

	stats := envelope.Data
	stats.Processed = envelope.Processed
	return &stats, nil
}

// GetHealth fetches the daemon health. A 503 still carries a health body,
// which is returned together with an error.
func (api *LedgerAPIClient) GetHealth() (*Health, error) {
	var health Health

	// The daemon answers 503 with the same body once the engine drains
	resp, err := api.client.R().
		SetResult(&health).
		SetError(&health).
		Get("/health")
	if err != nil {
		return nil, api.connectError(err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		return &health, nil
	case resp.StatusCode() == http.StatusServiceUnavailable && health.Status != "":
		return &health, fmt.Errorf("daemon is %s (audit engine %s)", health.Status, health.AuditState)
	}

	return nil, statusError(resp)
}

// get issues an authenticated GET and decodes a 200 body into result
func (api *LedgerAPIClient) get(path string, result any) error {
	resp, err := api.client.R().
		SetResult(result).
		SetError(&ErrorResponse{}).
		Get(path)
	if err != nil {
		return api.connectError(err)
	}

	if resp.StatusCode() != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (api *LedgerAPIClient) connectError(err error) error {
	if netutil.IsConnectionRefusedError(err) {
		return fmt.Errorf("connection refused by %s - is ledgerd running? (use --api to point at it)", api.baseURL)
	}
	return fmt.Errorf("failed to connect to API server at %s: %w", api.baseURL, err)
}

func statusError(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if apiErr, ok := resp.Error().(*ErrorResponse); ok && apiErr.Error != "" {
		return fmt.Errorf("API request failed with status %d: %s: %s", resp.StatusCode(), apiErr.Error, apiErr.Message)
	}
	return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
}

// CreateAPIClient creates a client from the global CLI configuration
func CreateAPIClient() *LedgerAPIClient {
	return NewLedgerAPIClient(config.Global.APIAddr, config.Global.Timeout, config.Global.User, config.Global.Password)
}
