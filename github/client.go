package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public GitHub REST API root
	DefaultBaseURL = "https://api.github.com"
	// DefaultAPIVersion is the REST API version requested on every call
	DefaultAPIVersion = "2022-11-28"
	// DefaultPageSize is the per_page value used for collections
	DefaultPageSize = 100
	// MaxPageSize is the largest per_page GitHub accepts
	MaxPageSize = 100

	defaultUserAgent = "followsync"
	mediaType        = "application/vnd.github+json"
)

// Client represents a GitHub REST API client bound to one token
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	userAgent  string
	pageSize   int
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new GitHub client. It does not check the connection;
// call CurrentUser for that.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	client := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		apiVersion: DefaultAPIVersion,
		userAgent:  defaultUserAgent,
		pageSize:   DefaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// response is a fully read HTTP response
type response struct {
	method     string
	url        string
	statusCode int
	header     http.Header
	body       []byte
}

// doRequest performs an authenticated HTTP request and reads the whole body.
// Only transport failures are returned as errors; status codes are left to
// the caller.
func (c *Client) doRequest(ctx context.Context, method, rawURL string) (*response, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", c.apiVersion)
	req.Header.Set("Accept", mediaType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Str("ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining")).
		Msg("GitHub API request")

	return &response{
		method:     method,
		url:        rawURL,
		statusCode: resp.StatusCode,
		header:     resp.Header,
		body:       body,
	}, nil
}

// expect returns an *APIError unless the status is one of the accepted codes
func (r *response) expect(accepted ...int) error {
	for _, code := range accepted {
		if r.statusCode == code {
			return nil
		}
	}

	return &APIError{
		StatusCode: r.statusCode,
		Method:     r.method,
		URL:        r.url,
		Message:    errorMessage(r.statusCode, r.body),
		Body:       string(r.body),
	}
}

// errorMessage extracts GitHub's "message" field, falling back to the status text
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(status)
}

// CurrentUser returns the account that owns the token
func (c *Client) CurrentUser(ctx context.Context) (*Account, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/user")
	if err != nil {
		return nil, err
	}
	if err := resp.expect(http.StatusOK); err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(resp.body, &account); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &account, nil
}
