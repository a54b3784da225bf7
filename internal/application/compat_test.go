package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

func analysisFor(t *testing.T, repo model.Repository) model.RepoAnalysis {
	t.Helper()
	return AnalyzeRepository(repo, testScorer(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestComputeCompatibility_IdenticalReposScore100(t *testing.T) {
	repo := model.Repository{ID: 1, FullName: "acme/app", Name: "app", Description: "nextjs app"}
	a := analysisFor(t, repo)
	b := analysisFor(t, repo)

	report := ComputeCompatibility([]model.RepoAnalysis{a, b})

	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Conflicts)
}

func TestComputeCompatibility_DisjointFrameworksScoreMateriallyLower(t *testing.T) {
	reactRepo := model.Repository{ID: 1, FullName: "acme/web", Name: "web", Description: "react spa"}
	djangoRepo := model.Repository{ID: 2, FullName: "acme/api", Name: "api", Description: "django backend"}

	same := ComputeCompatibility([]model.RepoAnalysis{
		analysisFor(t, reactRepo),
		analysisFor(t, reactRepo),
	})
	disjoint := ComputeCompatibility([]model.RepoAnalysis{
		analysisFor(t, reactRepo),
		analysisFor(t, djangoRepo),
	})

	assert.Less(t, disjoint.Score, same.Score-30,
		"disjoint=%d shared=%d", disjoint.Score, same.Score)
}

func TestComputeCompatibility_FrameworkConflictDetected(t *testing.T) {
	report := ComputeCompatibility([]model.RepoAnalysis{
		analysisFor(t, model.Repository{ID: 1, FullName: "a/x", Description: "react app"}),
		analysisFor(t, model.Repository{ID: 2, FullName: "b/y", Description: "vue app"}),
	})

	var types []model.ConflictType
	for _, c := range report.Conflicts {
		types = append(types, c.Type)
	}
	assert.Contains(t, types, model.ConflictTypeFramework)
	assert.Contains(t, types, model.ConflictTypeDependency, "react and vue are a known-incompatible pair")

	require.NotEmpty(t, report.Suggestions)
	assert.Contains(t, report.Suggestions[len(report.Suggestions)-1], "micro-frontend")
}

func TestComputeCompatibility_SharedFrameworkNoConflicts(t *testing.T) {
	report := ComputeCompatibility([]model.RepoAnalysis{
		analysisFor(t, model.Repository{ID: 1, FullName: "a/x", Description: "nextjs dashboard"}),
		analysisFor(t, model.Repository{ID: 2, FullName: "b/y", Description: "nextjs blog", Topics: []string{"typescript"}}),
	})

	for _, c := range report.Conflicts {
		assert.NotEqual(t, model.ConflictTypeFramework, c.Type)
		assert.NotEqual(t, model.ConflictTypeDependency, c.Type)
	}
	assert.GreaterOrEqual(t, report.Score, 80)
}
