// Package github implements the CommentStore port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/w3c/prbuildbot/internal/domain/model"
	"github.com/w3c/prbuildbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommentStore = (*Client)(nil)

// Client implements the driven.CommentStore port for a single repository
// using the go-github library.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, owner, repo string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:    client,
		owner: owner,
		repo:  repo,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, owner, repo string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:    client,
		owner: owner,
		repo:  repo,
	}, nil
}

// CurrentUser returns the authenticated login for the configured token.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("fetching authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// ListComments retrieves all comments on the pull request, oldest first.
// It handles pagination automatically and maps go-github types to domain
// model types. Pull request comments live on the Issues API.
func (c *Client) ListComments(ctx context.Context, prNumber int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var allComments []model.Comment

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments for PR %d (page %d): %w", prNumber, opts.Page, err)
		}

		logRateLimit(resp, fmt.Sprintf("%s/%s#%d/comments", c.owner, c.repo, prNumber), opts.Page, len(comments))

		for _, cm := range comments {
			allComments = append(allComments, mapComment(cm))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allComments == nil {
		allComments = []model.Comment{}
	}

	return allComments, nil
}

// CreateComment posts a new comment on the pull request.
func (c *Client) CreateComment(ctx context.Context, prNumber int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, prNumber, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on PR %d: %w", prNumber, err)
	}
	return nil
}

// UpdateComment replaces the body of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, commentID int64, body string) error {
	_, _, err := c.gh.Issues.EditComment(ctx, c.owner, c.repo, commentID, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("updating comment %d: %w", commentID, err)
	}
	return nil
}

// mapComment converts a go-github IssueComment to a domain model Comment.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapComment(c *gh.IssueComment) model.Comment {
	return model.Comment{
		ID:     c.GetID(),
		Author: c.GetUser().GetLogin(),
		Body:   c.GetBody(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
