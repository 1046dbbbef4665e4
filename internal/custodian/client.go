package custodian

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"payout_vault/internal/custodian/srp"
)

const (
	defaultTimeout     = 30 * time.Second
	rateLimitWait      = 5 * time.Second
	minRequestInterval = 200 * time.Millisecond
)

// Client is an HTTP client for the custodian API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	// Request pacing
	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a new custodian API client.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("custodian base URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("custodian API token is required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		token:      token,
	}, nil
}

// doRequest executes an HTTP request with pacing and common headers.
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < minRequestInterval {
		time.Sleep(minRequestInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Back off and retry once on 429.
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		time.Sleep(rateLimitWait)
		return c.doRequest(req)
	}

	return resp, nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// postJSON performs a POST with a JSON body and decodes the response into out.
func (c *Client) postJSON(path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// checkStatus maps non-2xx responses to sentinel errors.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr apiError
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	json.Unmarshal(body, &apiErr)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case apiErr.Code == "PASSWORD_INVALID":
		return ErrPasswordInvalid
	case apiErr.Code == "INSUFFICIENT_FUNDS":
		return ErrInsufficientFunds
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("custodian request failed: status %d, code %s", resp.StatusCode, apiErr.Code)
	}
}

// GetPasswordParams fetches a fresh SRP challenge for the account password.
// Each challenge is valid for exactly one proof attempt.
func (c *Client) GetPasswordParams() (*PasswordParams, error) {
	var params PasswordParams
	if err := c.getJSON("/account/password", &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// GetBalance fetches the funds accumulated at the custodian.
func (c *Client) GetBalance() (*Balance, error) {
	var balance Balance
	if err := c.getJSON("/account/balance", &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// RequestWithdrawal submits a withdrawal authorized by the SRP proof. The
// proof is passed through as the password field; this client never sees the
// plaintext password.
func (c *Client) RequestWithdrawal(req WithdrawalRequest, check *srp.PasswordCheck) (*WithdrawalResult, error) {
	body := withdrawalBody{
		Amount:      req.Amount,
		Destination: req.Destination,
		Password:    check,
	}

	var result WithdrawalResult
	if err := c.postJSON("/account/withdraw", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
