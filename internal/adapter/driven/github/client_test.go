package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/repoforge/internal/adapter/driven/github"
	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client
}

// repoJSON is a helper struct for building GitHub API repository records.
type repoJSON struct {
	ID          int64        `json:"id"`
	FullName    string       `json:"full_name"`
	Name        string       `json:"name"`
	Owner       ownerJSON    `json:"owner"`
	HTMLURL     string       `json:"html_url"`
	Description string       `json:"description"`
	Language    string       `json:"language"`
	Topics      []string     `json:"topics"`
	Stars       int          `json:"stargazers_count"`
	Forks       int          `json:"forks_count"`
	OpenIssues  int          `json:"open_issues_count"`
	License     *licenseJSON `json:"license,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

type ownerJSON struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type licenseJSON struct {
	SPDXID string `json:"spdx_id"`
}

type searchResultJSON struct {
	TotalCount int        `json:"total_count"`
	Items      []repoJSON `json:"items"`
}

func TestSearchRepositories_MapsResults(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "language:go cli", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Ratelimit-Limit", "5000")
		w.Header().Set("X-Ratelimit-Remaining", "4987")
		w.Header().Set("X-Ratelimit-Reset", "1700000000")
		json.NewEncoder(w).Encode(searchResultJSON{
			TotalCount: 1234,
			Items: []repoJSON{
				{
					ID:          101,
					FullName:    "acme/cli",
					Name:        "cli",
					Owner:       ownerJSON{Login: "acme", AvatarURL: "https://avatars.example/acme"},
					HTMLURL:     "https://github.com/acme/cli",
					Description: "A command line tool",
					Language:    "Go",
					Topics:      []string{"cli", "go", "cli"},
					Stars:       4200,
					Forks:       310,
					OpenIssues:  25,
					License:     &licenseJSON{SPDXID: "MIT"},
					CreatedAt:   "2020-03-01T00:00:00Z",
					UpdatedAt:   "2025-05-20T10:30:00Z",
				},
				{
					ID:       102,
					FullName: "acme/bare",
					Name:     "bare",
					Owner:    ownerJSON{Login: "acme"},
				},
			},
		})
	})

	client := newTestClient(t, handler)
	page, err := client.SearchRepositories(context.Background(), "language:go cli", model.SortStars, model.OrderDesc, 2, 30)
	require.NoError(t, err)

	assert.Equal(t, 1234, page.TotalCount)
	require.Len(t, page.Repositories, 2)

	repo := page.Repositories[0]
	assert.Equal(t, int64(101), repo.ID)
	assert.Equal(t, "acme/cli", repo.FullName)
	assert.Equal(t, "acme", repo.Owner)
	assert.Equal(t, "https://avatars.example/acme", repo.OwnerAvatarURL)
	assert.Equal(t, "cli", repo.Name)
	assert.Equal(t, "https://github.com/acme/cli", repo.URL)
	assert.Equal(t, "A command line tool", repo.Description)
	assert.Equal(t, "Go", repo.Language)
	assert.Equal(t, []string{"cli", "go"}, repo.Topics, "duplicate topics are dropped")
	assert.Equal(t, 4200, repo.Stars)
	assert.Equal(t, 310, repo.Forks)
	assert.Equal(t, 25, repo.OpenIssues)
	assert.Equal(t, "MIT", repo.License)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), repo.CreatedAt)
	assert.Nil(t, repo.QualityScore, "scores are never taken from the API")

	// Missing optional fields map to zero values, not panics.
	bare := page.Repositories[1]
	assert.Empty(t, bare.Description)
	assert.Empty(t, bare.License)
	assert.Nil(t, bare.Topics)

	// Rate headers surface so the application limiter can reconcile.
	assert.Equal(t, 4987, page.Rate.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), page.Rate.Reset.UTC())
}

func TestSearchRepositories_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.SearchRepositories(context.Background(), "bad query", "", "", 1, 30)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "searching repositories page 1")
}

func TestFetchRepository(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/cli", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(repoJSON{
			ID:          7,
			FullName:    "acme/cli",
			Name:        "cli",
			Owner:       ownerJSON{Login: "acme"},
			Description: "a command line tool",
			Language:    "Go",
			Topics:      []string{"cli", "go"},
			Stars:       4200,
			Forks:       310,
			License:     &licenseJSON{SPDXID: "MIT"},
			CreatedAt:   "2020-01-02T00:00:00Z",
			UpdatedAt:   "2025-05-30T00:00:00Z",
		})
	})

	client := newTestClient(t, handler)
	repo, err := client.FetchRepository(context.Background(), "acme/cli")

	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.ID)
	assert.Equal(t, "acme/cli", repo.FullName)
	assert.Equal(t, "acme", repo.Owner)
	assert.Equal(t, 4200, repo.Stars)
	assert.Equal(t, "MIT", repo.License)
	assert.Equal(t, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), repo.UpdatedAt)
	assert.Nil(t, repo.QualityScore)
}

func TestFetchRepository_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.FetchRepository(context.Background(), "acme/gone")

	assert.ErrorIs(t, err, driven.ErrRepositoryNotFound)
}

func TestFetchRepository_InvalidFullName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid name")
	}))

	_, err := client.FetchRepository(context.Background(), "norepo")
	assert.Error(t, err)
}

func TestFetchLanguages(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/cli/languages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Go": 94000, "Shell": 1200, "Makefile": 300}`))
	})

	client := newTestClient(t, handler)
	languages, err := client.FetchLanguages(context.Background(), "acme/cli")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Go": 94000, "Shell": 1200, "Makefile": 300}, languages)
}

func TestFetchLanguages_InvalidFullName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid name")
	}))

	for _, name := range []string{"", "norepo", "/leading", "trailing/"} {
		_, err := client.FetchLanguages(context.Background(), name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestFetchContributorCount(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/cli/contributors", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"login":"alice"},{"login":"bob"},{"login":"carol"}]`))
	})

	client := newTestClient(t, handler)
	count, err := client.FetchContributorCount(context.Background(), "acme/cli")

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFetchContributorCount_APIError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Forbidden"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.FetchContributorCount(context.Background(), "acme/cli")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing contributors for acme/cli")
}
