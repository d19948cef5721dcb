package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// ErrIssueNotFound is returned when the tracker has no such issue.
var ErrIssueNotFound = errors.New("issue not found")

// Issue is a tracker issue.
type Issue struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

// Comment is a comment on a tracker issue.
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// IssueTracker stores profile review requests as issues.
type IssueTracker interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (Issue, error)
	GetIssue(ctx context.Context, number int) (Issue, error)
	ListComments(ctx context.Context, number int) ([]Comment, error)
}

// HTTPClient performs HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GitHubIssues is an IssueTracker backed by the GitHub REST API.
type GitHubIssues struct {
	client  HTTPClient
	baseURL string
	apiKey  string
	owner   string
	repo    string
}

// NewGitHubIssues creates a tracker for owner/repo. apiKey may be empty
// for unauthenticated access.
func NewGitHubIssues(owner, repo, apiKey string, client HTTPClient) *GitHubIssues {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &GitHubIssues{
		client:  client,
		baseURL: "https://api.github.com",
		apiKey:  apiKey,
		owner:   owner,
		repo:    repo,
	}
}

// WithBaseURL points the tracker at another API root.
func (g *GitHubIssues) WithBaseURL(baseURL string) *GitHubIssues {
	g.baseURL = strings.TrimSuffix(baseURL, "/")
	return g
}

func (g *GitHubIssues) CreateIssue(ctx context.Context, title, body string, labels []string) (Issue, error) {
	var issue Issue
	payload := map[string]any{"title": title, "body": body, "labels": labels}
	err := g.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/%s/issues", g.owner, g.repo), payload, &issue)
	if err != nil {
		return issue, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

func (g *GitHubIssues) GetIssue(ctx context.Context, number int) (Issue, error) {
	var issue Issue
	err := g.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/issues/%d", g.owner, g.repo, number), nil, &issue)
	if err != nil {
		return issue, fmt.Errorf("get issue #%d: %w", number, err)
	}
	return issue, nil
}

func (g *GitHubIssues) ListComments(ctx context.Context, number int) ([]Comment, error) {
	var comments []Comment
	err := g.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/issues/%d/comments?per_page=100", g.owner, g.repo, number), nil, &comments)
	if err != nil {
		return nil, fmt.Errorf("list comments of #%d: %w", number, err)
	}
	return comments, nil
}

func (g *GitHubIssues) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("http %s: %w", strings.ToLower(method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrIssueNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5*1024*1024)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
