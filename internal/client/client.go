// Package client talks to the remote stylist service over HTTP+JSON
package client

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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/api/response"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
)

// maxErrorBody bounds how much of a failed response is kept in the error
const maxErrorBody = 512

// Client wraps HTTP communication with the stylist service. It implements
// domain.CatalogAPI, domain.ChatAPI and domain.OutfitAPI.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// New creates a new stylist client for baseURL
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	return &Client{
		baseURL: u,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Ping checks the service answers its root route
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.endpoint(), nil, "", nil)
}

// endpoint joins escaped path segments onto the base URL
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.Join(segments, "/")
	return u.String()
}

// doJSON marshals in as the request body and decodes the answer into out
func (c *Client) doJSON(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, target, body, contentType, out)
}

// do executes a request. Transport failures and non-2xx answers are mapped
// onto the domain failure classes.
func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("url", target).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("stylist request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}

	payload := response.Unwrap(data)
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty response from %s %s", domain.ErrNetwork, method, req.URL.Path)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %w", domain.ErrNetwork, err)
	}
	return nil
}

// statusError maps an HTTP status onto a wrapped domain error
func statusError(status int, body []byte) error {
	msg := response.ErrorMessage(body)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	kind := domain.ErrNetwork
	switch status {
	case http.StatusNotFound:
		kind = domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	}
	return fmt.Errorf("%w: %s (HTTP %d)", kind, msg, status)
}
