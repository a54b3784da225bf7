package application

import (
	"math"
	"time"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// Standard score component caps. The caps sum to 100 and encode the
// intended proportions: stars 30%, forks 20%, recency 20%, docs 20%,
// issue health 10%.
const (
	starsCap      = 30.0
	forksCap      = 20.0
	recencyCap    = 20.0
	docsDescScore = 15.0
	docsTopicsCap = 5.0
	issueCap      = 10.0
)

// Enhanced score component caps. The enhanced variant sums raw capped
// components directly and clamps to 100; it is not proportion-weighted.
const (
	enhStarsCap        = 25.0
	enhRecencyCap      = 20.0
	enhContributorsCap = 15.0
	enhForksCap        = 5.0
	enhLanguagesCap    = 10.0
	enhIssueCap        = 10.0
)

// QualityScorer computes the bounded 0-100 quality heuristic from raw
// repository metadata. Scores are deterministic for identical metadata at
// identical wall-clock time; the only time-dependent input is days since
// last update, so a repository's score drifts monotonically downward
// between runs when nothing changes.
type QualityScorer struct {
	now func() time.Time
}

// NewQualityScorer creates a scorer using the wall clock.
func NewQualityScorer() *QualityScorer {
	return &QualityScorer{now: time.Now}
}

// Score computes the standard quality score from metadata alone.
func (s *QualityScorer) Score(repo model.Repository) int {
	stars := math.Min(math.Log10(float64(repo.Stars)+1)*10, starsCap)
	forks := math.Min(math.Log10(float64(repo.Forks)+1)*10, forksCap)
	recency := s.recencyScore(repo.UpdatedAt)

	var docs float64
	if len(repo.Description) > 50 {
		docs += docsDescScore
	}
	if len(repo.Topics) > 0 {
		docs += docsTopicsCap
	}

	issues := issueHealthScore(repo.OpenIssues, repo.Stars, issueCap)

	total := stars + forks + recency + docs + issues
	return int(math.Round(math.Min(total, 100)))
}

// ScoreEnhanced computes the enhanced quality score using the language
// breakdown and contributor count from enrichment. Used only when both
// lookups succeeded; callers fall back to Score otherwise.
func (s *QualityScorer) ScoreEnhanced(repo model.Repository, enr model.Enrichment) int {
	stars := math.Min(math.Log10(float64(repo.Stars)+1)*10, enhStarsCap)
	recency := s.recencyScore(repo.UpdatedAt)
	contributors := math.Min(float64(enr.ContributorCount)*0.5, enhContributorsCap)
	forks := math.Min(math.Log10(float64(repo.Forks)+1)*2.5, enhForksCap)
	languages := math.Min(float64(len(enr.Languages))*2.5, enhLanguagesCap)
	issues := issueHealthScore(repo.OpenIssues, repo.Stars, enhIssueCap)

	total := stars + recency + contributors + forks + languages + issues
	return int(math.Round(math.Min(total, 100)))
}

// recencyScore decays from the cap by one point per 30 days since the last
// update, floored at zero.
func (s *QualityScorer) recencyScore(updatedAt time.Time) float64 {
	days := s.now().Sub(updatedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Max(recencyCap-days/30, 0)
}

// issueHealthScore penalizes a high open-issue count relative to
// popularity. The +1 denominator keeps zero-star repositories safe.
func issueHealthScore(openIssues, stars int, limit float64) float64 {
	ratio := float64(openIssues) / float64(stars+1)
	return math.Max(limit-ratio*50, 0)
}
