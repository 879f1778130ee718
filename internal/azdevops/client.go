// Package azdevops is a thin REST client for the Azure DevOps services the
// report needs: work-item tracking, git, and the graph/identity endpoints.
package azdevops

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const apiVersion = "7.0"

type Client struct {
	orgURL     string
	vsspsURL   string
	pat        string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewClient builds a client for one organization. orgURL is the base
// organization URL, e.g. https://dev.azure.com/fabrikam; the matching
// vssps host for graph and identity calls is derived from it.
func NewClient(orgURL, pat string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	orgURL = strings.TrimRight(orgURL, "/")

	vssps := orgURL
	if strings.Contains(orgURL, "://dev.azure.com") {
		vssps = strings.Replace(orgURL, "://dev.azure.com", "://vssps.dev.azure.com", 1)
	}

	return &Client{
		orgURL:     orgURL,
		vsspsURL:   vssps,
		pat:        pat,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// the service throttles aggressively; stay well under its limits
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		log:     log,
	}
}

func (c *Client) get(ctx context.Context, base, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, base, path, query, nil, out)
}

func (c *Client) postJSON(ctx context.Context, base, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, base, path, query, payload, out)
}

func (c *Client) do(ctx context.Context, method, base, path string, query url.Values, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	if query.Get("api-version") == "" {
		query.Set("api-version", apiVersion)
	}

	endpoint := base + path + "?" + query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+basicPAT(c.pat))
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("azure devops request", "method", method, "url", base+path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// basicPAT encodes a personal access token the way the service expects it:
// basic auth with an empty user name.
func basicPAT(pat string) string {
	return base64.StdEncoding.EncodeToString([]byte(":" + pat))
}

// HealthCheck verifies connectivity and credentials with a cheap call.
func (c *Client) HealthCheck(ctx context.Context) error {
	var out struct {
		Count int `json:"count"`
	}
	q := url.Values{}
	q.Set("stateFilter", "wellFormed")
	q.Set("$top", "1")
	if err := c.get(ctx, c.orgURL, "/_apis/projects", q, &out); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
