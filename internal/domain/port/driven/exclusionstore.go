package driven

import (
	"context"
	"errors"
)

// Sentinel errors returned by ExclusionStore implementations.
var (
	// ErrExclusionNotFound indicates the login is not on the exclusion list.
	ErrExclusionNotFound = errors.New("exclusion not found")

	// ErrExclusionExists indicates the login is already excluded.
	ErrExclusionExists = errors.New("exclusion already exists")
)

// ExclusionStore defines the driven port for the persistent exclusion
// list: account logins always excluded from search results.
// Add returns ErrExclusionExists for duplicates; Remove returns
// ErrExclusionNotFound for unknown logins. ListAll returns logins in a
// stable order so query serialization stays deterministic.
type ExclusionStore interface {
	Add(ctx context.Context, login string) error
	Remove(ctx context.Context, login string) error
	ListAll(ctx context.Context) ([]string, error)
}
