// HTTP client for the soundpost REST backend
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/nmoreras/soundpost/internal/shared"
)

// Client provides methods for making requests to the soundpost backend.
// A bearer token, when set, is attached to every request. Every call is
// bounded by the configured timeout so a stalled backend cannot block the
// caller indefinitely.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	mu    sync.RWMutex
	token string
}

// NewClient creates a new backend client.
func NewClient(baseURL string, client *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		timeout:    timeout,
	}
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken installs the bearer token used for authorized requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Response represents a raw backend response with status and body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON body.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON body.
func (c *Client) Put(ctx context.Context, path string, data []byte) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, data []byte) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, data)
}

func (c *Client) do(ctx context.Context, method, path string, data []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// postJSON marshals payload, POSTs it to path, and decodes a 2xx body into out (when non-nil).
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

// putJSON marshals payload, PUTs it to path, and decodes a 2xx body into out (when non-nil).
func (c *Client) putJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, payload, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var resp *Response
	switch method {
	case http.MethodPut:
		resp, err = c.Put(ctx, path, data)
	case http.MethodDelete:
		resp, err = c.Delete(ctx, path, data)
	default:
		resp, err = c.Post(ctx, path, data)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if out != nil {
		if err := resp.Decode(out); err != nil {
			return err
		}
	}
	return nil
}

// getJSON GETs path and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
	return resp.Decode(out)
}
