package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// ErrAnalysisUnavailable indicates the LLM collaborator failed or returned
// output that could not be parsed. Callers substitute a fallback insight
// rather than surfacing this to users.
var ErrAnalysisUnavailable = errors.New("analysis unavailable")

// RepoAnalyzer defines the driven port for the opaque LLM analysis
// collaborator. Implementations return ErrAnalysisUnavailable (wrapped)
// when the model is unreachable or its output is malformed.
type RepoAnalyzer interface {
	Analyze(ctx context.Context, repo model.Repository) (*model.RepoInsight, error)
}
