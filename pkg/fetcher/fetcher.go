// Package fetcher performs the single bounded-time HTTP GET per URL.
// There is no per-request retry: recovery is re-invocation of the pass,
// which the checkpoint makes idempotent.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"urlharvest/pkg/errors"
	"urlharvest/pkg/logger"
)

// Response is the raw result of fetching one URL.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client fetches URLs over HTTP.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// New creates a new fetch client with the given timeout.
func New(timeout time.Duration, userAgent string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if userAgent == "" {
		userAgent = "urlharvest/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client.
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Fetch performs one GET against url. A transport failure returns a typed
// error; any received response is returned with its status code, including
// non-2xx responses, so the classifier can inspect both body and status.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeTransport, fmt.Sprintf("invalid request: %v", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.DebugWithFields("fetch transport failure", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeTransport, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeTransport, fmt.Sprintf("failed to read body: %v", err))
	}

	c.logger.DebugWithFields("fetched", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": duration,
	})

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
