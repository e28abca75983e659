// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is used when no API URL is configured
const DefaultBaseURL = "http://localhost:8000"

// HTTPClient talks to the query service over JSON/HTTP
type HTTPClient struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *http.Client
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithToken sends the token as a bearer Authorization header
func WithToken(token string) Option {
	return func(c *HTTPClient) { c.token = token }
}

// WithTimeout bounds requests whose context carries no deadline.
// A caller deadline always wins, so long executions can outlive d.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.client = hc }
}

// NewHTTPClient creates a client for the service at baseURL
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 2 * time.Minute,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root this client targets
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SearchClients lists connection profiles matching search
func (c *HTTPClient) SearchClients(ctx context.Context, search string, limit int) ([]Client, error) {
	q := url.Values{}
	q.Set("search", search)
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, http.MethodGet, "/clients?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var clients []Client
	if err := json.Unmarshal(body, &clients); err != nil {
		return nil, WrapTransportError("search clients", fmt.Errorf("failed to parse response: %w", err))
	}
	return clients, nil
}

// ResolveConnection asks the backend to open a live connection for clientID
func (c *HTTPClient) ResolveConnection(ctx context.Context, clientID string) (*ResolveResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/clients/"+url.PathEscape(clientID)+"/resolve", nil)
	if err != nil {
		return nil, err
	}

	var resp ResolveResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, WrapTransportError("resolve connection", fmt.Errorf("failed to parse response: %w", err))
		}
	}
	return &resp, nil
}

// ExecuteQuery runs req and returns its select or non-select result
func (c *HTTPClient) ExecuteQuery(ctx context.Context, req ExecuteRequest) (Result, error) {
	body, err := c.do(ctx, http.MethodPost, "/query/execute", req)
	if err != nil {
		return nil, err
	}

	result, err := DecodeResult(body)
	if err != nil {
		return nil, WrapTransportError("execute query", err)
	}
	return result, nil
}

// CancelQuery asks the backend to stop queryID
func (c *HTTPClient) CancelQuery(ctx context.Context, queryID string) error {
	_, err := c.do(ctx, http.MethodPost, "/query/"+url.PathEscape(queryID)+"/cancel", nil)
	return err
}

// do performs one request. Non-2xx responses become *Error, everything
// that never reached a response becomes *TransportError.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, WrapTransportError(method+" "+path, fmt.Errorf("failed to marshal request body: %w", err))
		}
		bodyReader = bytes.NewReader(b)
	}

	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, WrapTransportError(method+" "+path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("api: %s %s [%s] transport error: %v", method, path, requestID, err)
		return nil, WrapTransportError(method+" "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapTransportError(method+" "+path, fmt.Errorf("failed to read response body: %w", err))
	}
	log.Printf("api: %s %s [%s] %d in %s", method, path, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func parseError(status int, body []byte) error {
	var payload QueryError
	if json.Unmarshal(body, &payload) == nil && (payload.Code != "" || payload.Message != "") {
		return &Error{
			StatusCode: status,
			Code:       payload.Code,
			Message:    payload.Message,
			Hint:       payload.Hint,
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(status)
	}
	return &Error{StatusCode: status, Body: text}
}
