// Package github implements the Publisher port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Publisher = (*Client)(nil)

// Client implements the driven.Publisher port using the go-github library.
// Uploads go to a single repository and branch fixed at construction.
type Client struct {
	gh     *gh.Client
	owner  string
	repo   string
	branch string
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// repoFullName must be "owner/repo".
func NewClient(token, repoFullName, branch string) (*Client, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:     client,
		owner:  owner,
		repo:   repo,
		branch: branch,
	}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, repoFullName, branch string) (*Client, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:     client,
		owner:  owner,
		repo:   repo,
		branch: branch,
	}, nil
}

// Upload creates or replaces the file at path on the configured branch via the
// Contents API. It first fetches the existing file to learn its blob SHA:
// 200 means update with that SHA, 404 means create fresh. Any other status is
// an error.
func (c *Client) Upload(ctx context.Context, path string, content []byte, message string) error {
	getOpts := &gh.RepositoryContentGetOptions{Ref: c.branch}

	var sha string
	existing, _, resp, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, getOpts)
	switch {
	case err == nil && existing != nil:
		sha = existing.GetSHA()
		slog.Info("updating file", "path", path)
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		slog.Info("creating file", "path", path)
	case err != nil:
		return fmt.Errorf("checking existing contents of %s: %w", path, err)
	default:
		return fmt.Errorf("checking existing contents of %s: path is not a file", path)
	}

	logRateLimit(resp, path)

	fileOpts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		Branch:  gh.Ptr(c.branch),
	}
	if sha != "" {
		fileOpts.SHA = gh.Ptr(sha)
		_, resp, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, path, fileOpts)
	} else {
		_, resp, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, path, fileOpts)
	}
	if err != nil {
		return fmt.Errorf("pushing %s to %s/%s@%s: %w", path, c.owner, c.repo, c.branch, err)
	}

	logRateLimit(resp, path)
	slog.Info("pushed file", "path", path, "repo", c.owner+"/"+c.repo, "branch", c.branch)
	return nil
}

// ValidateToken verifies the client's token and returns the authenticated
// login on success.
func (c *Client) ValidateToken(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	return user.GetLogin(), nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
