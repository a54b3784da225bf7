package application

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

func testScorer(now time.Time) *QualityScorer {
	s := NewQualityScorer()
	s.now = func() time.Time { return now }
	return s
}

func TestQualityScorer_EmptyRepositoryIsConstantLow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := testScorer(now)

	repo := model.Repository{UpdatedAt: now} // zero stars, forks, issues, topics, short description

	// Recency contributes its full cap and issue health is clean; every
	// popularity and documentation component is zero.
	got := scorer.Score(repo)
	assert.Equal(t, 30, got)

	// No division by zero and no drift across repeated calls.
	assert.Equal(t, got, scorer.Score(repo))
}

func TestQualityScorer_PopularRepoBeatsAbandonedByLargeMargin(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := testScorer(now)

	repoA := model.Repository{
		Stars:       10000,
		Forks:       2000,
		UpdatedAt:   now,
		Description: strings.Repeat("x", 200),
		Topics:      []string{"a", "b", "c", "d", "e"},
	}
	repoB := model.Repository{
		Stars:     5,
		Forks:     0,
		UpdatedAt: now.AddDate(-2, 0, 0),
	}

	scoreA := scorer.Score(repoA)
	scoreB := scorer.Score(repoB)

	assert.GreaterOrEqual(t, scoreA-scoreB, 40, "A=%d B=%d", scoreA, scoreB)
}

func TestQualityScorer_ComponentCaps(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := testScorer(now)

	repo := model.Repository{
		Stars:       1_000_000,
		Forks:       1_000_000,
		UpdatedAt:   now,
		Description: strings.Repeat("x", 100),
		Topics:      []string{"t"},
	}

	assert.Equal(t, 100, scorer.Score(repo))
}

func TestQualityScorer_IssueHealthPenalty(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := testScorer(now)

	healthy := model.Repository{Stars: 99, OpenIssues: 0, UpdatedAt: now}
	swamped := model.Repository{Stars: 99, OpenIssues: 1000, UpdatedAt: now}

	assert.Greater(t, scorer.Score(healthy), scorer.Score(swamped))
	// A huge issue backlog floors at zero rather than going negative.
	assert.GreaterOrEqual(t, scorer.Score(swamped), 0)
}

func TestQualityScorer_Enhanced(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorer := testScorer(now)

	repo := model.Repository{
		Stars:     10000,
		Forks:     2000,
		UpdatedAt: now,
	}

	t.Run("clamped to 100", func(t *testing.T) {
		enr := model.Enrichment{
			Languages:        map[string]int{"Go": 1, "TypeScript": 1, "HTML": 1, "CSS": 1},
			ContributorCount: 100,
		}
		got := scorer.ScoreEnhanced(repo, enr)
		assert.LessOrEqual(t, got, 100)
		assert.Equal(t, 85, got) // 25 + 20 + 15 + 5 + 10 + 10, all components capped
	})

	t.Run("empty enrichment is safe", func(t *testing.T) {
		got := scorer.ScoreEnhanced(model.Repository{UpdatedAt: now}, model.Enrichment{})
		assert.Equal(t, 30, got) // recency 20 + issue health 10
	})
}
