// Package travis implements the LogSource and PayloadVerifier ports against
// the Travis CI API.
package travis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/w3c/prbuildbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.LogSource       = (*Client)(nil)
	_ driven.PayloadVerifier = (*Client)(nil)
)

// Client talks to the Travis CI API. The /config response carrying the
// webhook signing key changes rarely, so the transport caches conditionally
// via httpcache.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Travis API client for the given base URL
// (e.g. "https://api.travis-ci.org").
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchBuildLog retrieves the full raw log text for the given job.
func (c *Client) FetchBuildLog(ctx context.Context, jobID int64) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/jobs/%d/log", jobID))
	if err != nil {
		return "", fmt.Errorf("fetching log for job %d: %w", jobID, err)
	}
	return string(body), nil
}

// JobURL returns the human-facing deep link to a job's log page.
func (c *Client) JobURL(org, repo string, jobID int64) string {
	return fmt.Sprintf("https://travis-ci.org/%s/%s/jobs/%d", org, repo, jobID)
}

// get performs a GET against the API and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", path, err)
	}
	return body, nil
}
