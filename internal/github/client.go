package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/acarlson33/repo-version-checker/internal/models"
	"golang.org/x/time/rate"
)

const (
	// UserAgent identifies this service to the GitHub API
	UserAgent = "repo-version-checker"
	// AcceptHeader requests the v3 JSON media type
	AcceptHeader = "application/vnd.github.v3+json"
)

// ErrNotFound matches any APIError with a 404 status
var ErrNotFound = errors.New("github: not found")

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	StatusText string
}

func (e *APIError) Error() string {
	return "GitHub API error: " + e.StatusText
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ClientConfig configures a Client
type ClientConfig struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration // 0 keeps the transport default
	RateLimit float64       // requests per second, <= 0 disables throttling
	RateBurst int
}

// Client is a minimal read-only GitHub REST client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a GitHub client
func NewClient(cfg ClientConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
	}
}

// LatestRelease fetches the most recent published release
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*models.Release, error) {
	var release models.Release
	if err := c.get(ctx, repoPath(owner, repo, "releases/latest"), &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// ListTags fetches the first page of tags in the order GitHub returns them
func (c *Client) ListTags(ctx context.Context, owner, repo string) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.get(ctx, repoPath(owner, repo, "tags"), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", AcceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func repoPath(owner, repo, suffix string) string {
	return fmt.Sprintf("/repos/%s/%s/%s", url.PathEscape(owner), url.PathEscape(repo), suffix)
}
