// Package upstream provides the HTTP client used to call the services this
// backend aggregates. Every request carries the acting user's internal id
// in the X-User-ID header, which is how the upstream services authorize
// chatbot traffic.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/metrics"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// UserIDHeader names the header upstream services read the acting user
// from.
const UserIDHeader = "X-User-ID"

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

// Client is a JSON HTTP client bound to one upstream service.
type Client struct {
	name string
	http *http.Client
	base *url.URL
	log  *logger.Logger
}

// New constructs a client for the named service.
func New(name string, httpClient *http.Client, baseURL string, log *logger.Logger) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%s base url required", name)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s base url: %w", name, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("upstream-" + name)
	}
	return &Client{
		name: name,
		http: httpClient,
		base: parsed,
		log:  log,
	}, nil
}

// Name returns the service name the client is bound to.
func (c *Client) Name() string { return c.name }

// GetJSON performs a GET and decodes the JSON body into dst. A dst of nil
// discards the body.
func (c *Client) GetJSON(ctx context.Context, userID int64, path string, query url.Values, dst interface{}) error {
	return c.do(ctx, http.MethodGet, userID, path, query, nil, dst)
}

// PostJSON performs a POST with a JSON body and decodes the response into
// dst. A dst of nil discards the body.
func (c *Client) PostJSON(ctx context.Context, userID int64, path string, body interface{}, dst interface{}) error {
	return c.do(ctx, http.MethodPost, userID, path, nil, body, dst)
}

// GetRaw performs a GET and returns the raw response body, for payloads
// whose structure must be inspected before decoding.
func (c *Client) GetRaw(ctx context.Context, userID int64, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, userID, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method string, userID int64, path string, query url.Values, body, dst interface{}) error {
	requestURL := *c.base
	requestURL.Path = strings.TrimSuffix(requestURL.Path, "/") + path
	if query != nil {
		requestURL.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", c.name, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(UserIDHeader, strconv.FormatInt(userID, 10))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(c.name, 0, time.Since(start))
		return fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(c.name, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.WithField("status", resp.StatusCode).
			WithField("path", path).
			Warn("upstream request failed")
		return &StatusError{Service: c.name, Status: resp.StatusCode, Body: string(snippet)}
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}
