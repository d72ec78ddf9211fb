// Package github wraps the hosting-platform API operations the review
// pipeline needs: pull request metadata, the raw unified diff, and comment
// publishing.
package github

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"
)

const defaultTimeout = 30 * time.Second

// Client provides GitHub API operations. Every call carries a fixed
// timeout; a hung API request never blocks a review run indefinitely.
type Client struct {
	client  *github.Client
	token   string
	timeout time.Duration
}

// NewClient creates a new GitHub API client. A non-positive timeout falls
// back to 30s.
func NewClient(token string, timeout time.Duration) *Client {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}

	return &Client{
		client:  github.NewClient(httpClient),
		token:   token,
		timeout: timeout,
	}
}

// callCtx bounds one API call with the client timeout.
func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "token "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// PullRequest is the PR metadata the pipeline passes to analyzers and the
// report builder.
type PullRequest struct {
	Number       int
	Title        string
	Body         string
	Author       string
	State        string
	HeadSHA      string
	Additions    int
	Deletions    int
	ChangedFiles int
}

// GetPullRequest fetches PR metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, prNumber int) (*PullRequest, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("get pull request: %w", err)
	}

	return &PullRequest{
		Number:       prNumber,
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		State:        pr.GetState(),
		HeadSHA:      pr.GetHead().GetSHA(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
	}, nil
}

// GetPRDiff fetches the unified diff text for a PR.
func (c *Client) GetPRDiff(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	diff, _, err := c.client.PullRequests.GetRaw(ctx, owner, repo, prNumber, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("get pr diff: %w", err)
	}
	return diff, nil
}

// CreatePRComment posts a comment on a PR.
func (c *Client) CreatePRComment(ctx context.Context, owner, repo string, prNumber int, body string) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	_, _, err := c.client.Issues.CreateComment(ctx, owner, repo, prNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("create pr comment: %w", err)
	}
	return nil
}

// ParseRepoFullName splits "owner/repo" into parts.
func ParseRepoFullName(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name: %s", fullName)
	}
	return parts[0], parts[1], nil
}
