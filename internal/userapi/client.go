package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Gateway is the set of remote profile operations the store depends on.
// It is implemented by *Client and can be faked in tests.
type Gateway interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, id int64, patch Patch) (User, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Client talks to a JSONPlaceholder-style users API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Options tune a Client. The zero value is usable.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64      // zero disables pacing
	HTTPClient        *http.Client // overrides Timeout when set
	Logger            *slog.Logger
}

const (
	// DefaultBaseURL is the public API the profile data comes from.
	DefaultBaseURL   = "https://jsonplaceholder.typicode.com"
	defaultUserAgent = "roster/0.1"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
)

// NewClient builds a Client for the API rooted at base.
func NewClient(base string, opts Options) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	c := &Client{
		baseURL:   u,
		http:      httpClient,
		userAgent: defaultUserAgent,
		logger:    logger.With("component", "userapi"),
	}
	if rps := opts.RequestsPerSecond; rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListUsers retrieves the full user collection.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "list users", http.MethodGet, c.usersURL(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser retrieves a single user. A missing id yields a NetworkError
// wrapping ErrNotFound.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	if err := c.do(ctx, "get user", http.MethodGet, c.userURL(id), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateUser writes the patch and returns the server's resulting record.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch Patch) (User, error) {
	var user User
	if err := c.do(ctx, "update user", http.MethodPut, c.userURL(id), patch, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) usersURL() *url.URL {
	return c.baseURL.JoinPath("users")
}

func (c *Client) userURL(id int64) *url.URL {
	return c.baseURL.JoinPath("users", strconv.FormatInt(id, 10))
}

func (c *Client) do(ctx context.Context, op, method string, target *url.URL, body, dest any) error {
	fail := func(status int, err error) error {
		return &NetworkError{Op: op, URL: target.String(), Status: status, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, fmt.Errorf("wait for rate limiter: %w", err))
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	log := c.logger.With("request_id", requestID, "method", method, "url", target.String())
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("api request failed", "error", err.Error())
		return fail(0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug("api request", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusNotFound {
		return fail(resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, nil)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(dest); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", base)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
