// Package github implements the SearchClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SearchClient = (*Client)(nil)

// Client implements the driven.SearchClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// An empty token yields an anonymous client with the lower quota; the
// application-level rate limiter reconciles from response headers either way.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// SearchRepositories runs one page of the repository search and maps the
// raw records plus the response's rate headers to domain types.
func (c *Client) SearchRepositories(ctx context.Context, query string, sort model.SortKey, order model.SortOrder, page, perPage int) (*model.RawSearchPage, error) {
	opts := &gh.SearchOptions{
		Sort:  string(sort),
		Order: string(order),
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching repositories page %d: %w", page, err)
	}

	logRateLimit(resp, "search", page, len(result.Repositories))

	repos := make([]model.Repository, 0, len(result.Repositories))
	for _, raw := range result.Repositories {
		repos = append(repos, mapRepository(raw))
	}

	return &model.RawSearchPage{
		Repositories: repos,
		TotalCount:   result.GetTotal(),
		Rate: model.RateInfo{
			Remaining: resp.Rate.Remaining,
			Reset:     resp.Rate.Reset.Time,
		},
	}, nil
}

// FetchRepository resolves a single repository by its "owner/repo" full name.
func (c *Client) FetchRepository(ctx context.Context, repoFullName string) (*model.Repository, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	raw, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("repository %s: %w", repoFullName, driven.ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("fetching repository %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName, 0, 1)

	mapped := mapRepository(raw)
	return &mapped, nil
}

// FetchLanguages returns the byte-weighted language breakdown for a repository.
func (c *Client) FetchLanguages(ctx context.Context, repoFullName string) (map[string]int, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	languages, resp, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("listing languages for %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/languages", 0, len(languages))
	return languages, nil
}

// FetchContributorCount returns the number of top contributors, capped at
// the first page (100). The enhanced score saturates well below that, so
// the cap does not affect scoring.
func (c *Client) FetchContributorCount(ctx context.Context, repoFullName string) (int, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return 0, err
	}

	opts := &gh.ListContributorsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		return 0, fmt.Errorf("listing contributors for %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/contributors", 0, len(contributors))
	return len(contributors), nil
}

// mapRepository converts a go-github Repository to the domain model.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
// QualityScore is left nil: scores are always recomputed by the engine.
func mapRepository(raw *gh.Repository) model.Repository {
	topics := dedupeTopics(raw.Topics)

	return model.Repository{
		ID:             raw.GetID(),
		FullName:       raw.GetFullName(),
		Owner:          raw.GetOwner().GetLogin(),
		OwnerAvatarURL: raw.GetOwner().GetAvatarURL(),
		Name:           raw.GetName(),
		URL:            raw.GetHTMLURL(),
		Description:    raw.GetDescription(),
		Language:       raw.GetLanguage(),
		Topics:         topics,
		Stars:          raw.GetStargazersCount(),
		Forks:          raw.GetForksCount(),
		OpenIssues:     raw.GetOpenIssuesCount(),
		License:        raw.GetLicense().GetSPDXID(),
		CreatedAt:      raw.GetCreatedAt().Time,
		UpdatedAt:      raw.GetUpdatedAt().Time,
	}
}

// dedupeTopics drops duplicate topic entries, preserving order.
func dedupeTopics(topics []string) []string {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
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

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
