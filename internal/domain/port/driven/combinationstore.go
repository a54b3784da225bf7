package driven

import (
	"context"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// CombinationStore defines the driven port for combination persistence.
// The in-memory registry owned by the combine service is the source of
// truth within a process; the store is written through on create and read
// back once at startup.
type CombinationStore interface {
	Save(ctx context.Context, combo model.CombinationResult) error
	LoadAll(ctx context.Context) ([]model.CombinationResult, error)
}
