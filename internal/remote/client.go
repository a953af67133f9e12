// Package remote implements the cloud-store client for nutrimirror.
//
// The remote store is a document-oriented JSON API: the product
// catalog supports ordered paged queries with an opaque continuation
// cursor and prefix search; per-user diary, progress, and favorites
// documents are keyed by user and date. All calls are fallible and
// asynchronous; the sync layer decides which failures to surface and
// which to degrade around.
//
// Timeouts and transport-level retry policy live here, on the HTTP
// client. The sync layer above never retries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ademchenko/nutrimirror/internal/model"
)

const defaultTimeout = 12 * time.Second

// Config holds the remote client settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com.
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Timeout bounds each HTTP round trip. Zero means 12s.
	Timeout time.Duration
	// RetryMax is the transport-level retry count for transient
	// failures. Zero disables retries.
	RetryMax int
	// Logger for request failures. Nil means a default stderr logger.
	Logger *log.Logger
}

// Client talks to the remote store. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	logger  *log.Logger
}

// New creates a remote store client from cfg.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[remote] ", log.LstdFlags)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = cfg.RetryMax
	retryClient.HTTPClient.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  cfg.APIKey,
		http:    retryClient,
		logger:  logger,
	}
}

// getJSON issues a GET and decodes the body into out.
//
// Error mapping follows the store taxonomy: 404 becomes
// model.ErrNotFound, an undecodable 2xx body becomes
// model.ErrMalformedRecord, and everything else (network errors,
// non-2xx statuses) becomes a *model.TransportError.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &model.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, model.ErrMalformedRecord, err)
	}

	return nil
}

// sendJSON issues a PUT or DELETE with an optional JSON body.
// Write-path failures are always transport errors; the remote store
// has no meaningful 404 on upsert.
func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encode payload: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &model.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.TransportError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return nil
}

func (c *Client) setHeaders(req *retryablehttp.Request) {
	req.Header.Set("User-Agent", "nutrimirror/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
