// Package api is the REST client for the remote posts resource.
package api

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/config"
)

var apiLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	apiLogger = l
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout bounds every request. Zero disables the timeout. It applies to
// a copy of the HTTP client, whichever option order is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithHeaders assigns default headers added to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.headers.Set(config.HUserAgent, ua)
		}
	}
}

// Client talks JSON to a posts REST API rooted at a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
	timeout    *time.Duration
}

// NewClient creates a Client for the provided base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", baseURL)
	}
	// Keep a trailing slash so relative references resolve under any path prefix.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		headers: make(http.Header),
	}
	c.headers.Set(config.HAccept, config.CTypeJSON)

	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// FromConfig builds a Client from the api section of the configuration.
func FromConfig(cfg config.APIConfig, opts ...Option) (*Client, error) {
	base := []Option{WithTimeout(cfg.Timeout), WithUserAgent(cfg.UserAgent)}
	return NewClient(cfg.BaseURL, append(base, opts...)...)
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL, err := c.buildURL(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		data, err := jsonMarshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header = c.headers.Clone()
	if in != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}
	requestID := uuid.NewString()
	req.Header.Set(config.HRequestID, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiLogger.Error().Err(err).
			Str("method", method).
			Str("url", fullURL).
			Str("request_id", requestID).
			Msg("Request failed")
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer closeBody(resp.Body)

	apiLogger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) buildURL(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("api: invalid path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}

func jsonMarshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
