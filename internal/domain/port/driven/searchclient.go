// Package driven defines the outbound ports of the engine: the external
// search API, the LLM analysis collaborator, and persistence.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// ErrRepositoryNotFound indicates the named repository does not exist or
// is not visible to the configured credentials.
var ErrRepositoryNotFound = errors.New("repository not found")

// SearchClient defines the driven port for the external repository search
// API. SearchRepositories returns one raw page plus the quota reported by
// the response headers so the caller can reconcile its rate limiter.
// FetchRepository resolves a single repository by full name, returning
// ErrRepositoryNotFound (wrapped) for unknown names. FetchLanguages and
// FetchContributorCount are the optional enrichment lookups; their
// failures degrade, they never abort a search.
type SearchClient interface {
	SearchRepositories(ctx context.Context, query string, sort model.SortKey, order model.SortOrder, page, perPage int) (*model.RawSearchPage, error)
	FetchRepository(ctx context.Context, repoFullName string) (*model.Repository, error)
	FetchLanguages(ctx context.Context, repoFullName string) (map[string]int, error)
	FetchContributorCount(ctx context.Context, repoFullName string) (int, error)
}
