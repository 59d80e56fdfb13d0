// ABOUTME: HTTP implementation of the remote backend client.
// ABOUTME: Row-oriented REST: GET/PUT/DELETE per table plus POST login.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient talks to the sync backend over REST.
type HTTPClient struct {
	baseURL  string
	token    string
	deviceID string
	httpc    *http.Client
}

// NewHTTPClient creates a client for the given server. The token may be empty
// until Login succeeds.
func NewHTTPClient(baseURL, token, deviceID string) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		deviceID: deviceID,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken replaces the session token after login or refresh.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Login authenticates and returns the session scoping later calls.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password, "device_id": c.deviceID}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Select returns rows of a table matching the filter.
func (c *HTTPClient) Select(ctx context.Context, table string, f Filter) ([]map[string]any, error) {
	q := url.Values{}
	if f.UserID != "" {
		q.Set("user_id", f.UserID)
	}
	if !f.UpdatedAfter.IsZero() {
		q.Set("updated_after", f.UpdatedAfter.UTC().Format(time.RFC3339))
	}
	path := "/v1/tables/" + url.PathEscape(table) + "/rows"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var out struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// Fetch returns a single row by id, or ErrNotFound.
func (c *HTTPClient) Fetch(ctx context.Context, table, id string) (map[string]any, error) {
	var row map[string]any
	path := "/v1/tables/" + url.PathEscape(table) + "/rows/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// Upsert creates or replaces a row, returning the stored version.
func (c *HTTPClient) Upsert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	id, _ := row["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("upsert %s: row has no id", table)
	}
	var stored map[string]any
	path := "/v1/tables/" + url.PathEscape(table) + "/rows/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, row, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Delete removes a row by id. A missing row maps to ErrNotFound.
func (c *HTTPClient) Delete(ctx context.Context, table, id string) error {
	path := "/v1/tables/" + url.PathEscape(table) + "/rows/" + url.PathEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Health checks server reachability.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
