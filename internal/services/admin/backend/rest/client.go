package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/paydesk/internal/platform/timeouts"
	"github.com/louisbranch/paydesk/internal/services/admin/backend"
)

const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	// HTTPClient overrides the default client. Its transport is wrapped with
	// tracing either way.
	HTTPClient *http.Client
}

// Client talks to the hosted backend.
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("backend url is required")
	}
	baseURL, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL.Scheme)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("backend api key is required")
	}

	httpClient := &http.Client{Timeout: timeouts.BackendRequest}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	httpClient.Transport = newTracingTransport(httpClient.Transport)

	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    httpClient,
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do sends the request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint, token string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError reads the error bodies the table and auth endpoints return.
func decodeError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Error            string `json:"error"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	backendErr := &backend.Error{Status: resp.StatusCode}
	if err := json.Unmarshal(payload, &body); err != nil {
		backendErr.Message = strings.TrimSpace(string(payload))
		return backendErr
	}

	switch code := body.Code.(type) {
	case string:
		backendErr.Code = code
	case float64:
		backendErr.Code = fmt.Sprintf("%d", int(code))
	}
	if body.ErrorCode != "" {
		backendErr.Code = body.ErrorCode
	} else if backendErr.Code == "" {
		backendErr.Code = body.Error
	}
	for _, message := range []string{body.Message, body.Msg, body.ErrorDescription} {
		if message != "" {
			backendErr.Message = message
			break
		}
	}
	return backendErr
}

var _ backend.Backend = (*Client)(nil)
