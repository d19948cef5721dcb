// Package profile talks to the external GitHub profile review engine and
// the public list of candidate profiles.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"chick-bot/models"
)

// DefaultCandidatesURL lists the candidate profiles published by eggtray.
const DefaultCandidatesURL = "https://juniorguru.github.io/eggtray/profiles.json"

// ErrNotConfigured is returned by Check when no engine URL is set.
var ErrNotConfigured = errors.New("profile checker not configured")

const maxBody = 5 * 1024 * 1024

// HTTPClient performs HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reviews GitHub profiles and looks up candidates.
type Client struct {
	http          HTTPClient
	checkerURL    string
	candidatesURL string
	candidates    *expirable.LRU[string, []models.Candidate]
	logger        *slog.Logger
}

// NewClient creates a client. checkerURL may be empty, in which case
// Check always fails with ErrNotConfigured. The candidate list is cached
// for cacheTTL.
func NewClient(checkerURL, candidatesURL string, cacheTTL time.Duration, client HTTPClient, logger *slog.Logger) *Client {
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	if candidatesURL == "" {
		candidatesURL = DefaultCandidatesURL
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:          client,
		checkerURL:    checkerURL,
		candidatesURL: candidatesURL,
		candidates:    expirable.NewLRU[string, []models.Candidate](1, nil, cacheTTL),
		logger:        logger.With("system", "profile"),
	}
}

// Check asks the review engine about the GitHub profile at profileURL.
func (c *Client) Check(ctx context.Context, profileURL string) (models.Summary, error) {
	var summary models.Summary
	if c.checkerURL == "" {
		return summary, ErrNotConfigured
	}

	endpoint, err := url.Parse(c.checkerURL)
	if err != nil {
		return summary, fmt.Errorf("parse checker url: %w", err)
	}
	query := endpoint.Query()
	query.Set("url", profileURL)
	endpoint.RawQuery = query.Encode()

	if err := c.getJSON(ctx, endpoint.String(), &summary); err != nil {
		return summary, fmt.Errorf("check %s: %w", profileURL, err)
	}
	return summary, nil
}

// HasProfile reports whether username has a profile among candidates.
func (c *Client) HasProfile(ctx context.Context, username string) (bool, error) {
	candidates, err := c.Candidates(ctx)
	if err != nil {
		return false, err
	}
	for _, candidate := range candidates {
		if candidate.GitHubUsername == username {
			return true, nil
		}
	}
	return false, nil
}

// Candidates returns the candidate list, served from cache when fresh.
func (c *Client) Candidates(ctx context.Context) ([]models.Candidate, error) {
	if candidates, ok := c.candidates.Get(c.candidatesURL); ok {
		return candidates, nil
	}

	var payload struct {
		Items []models.Candidate `json:"items"`
	}
	if err := c.getJSON(ctx, c.candidatesURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	c.logger.Info("fetched candidate profiles", "count", len(payload.Items))
	c.candidates.Add(c.candidatesURL, payload.Items)
	return payload.Items, nil
}

func (c *Client) getJSON(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
