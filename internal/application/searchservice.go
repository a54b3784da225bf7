package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// ErrSearchFailed indicates the external search call errored or returned a
// malformed response. It is the single typed failure surfaced by Search;
// no partial results accompany it and no retry happens internally.
var ErrSearchFailed = errors.New("search failed")

// defaultPageSize is the fixed page size requested from the search API.
const defaultPageSize = 30

// Trending timeframe windows, in days before now.
var timeframeDays = map[model.Timeframe]int{
	model.TimeframeDaily:   1,
	model.TimeframeWeekly:  7,
	model.TimeframeMonthly: 30,
}

// EnrichedRepository is the result of the optional enrichment step:
// the repository with its (possibly enhanced) score plus the enrichment
// data. Degraded is set when any enrichment sub-call failed and the
// standard score was used instead.
type EnrichedRepository struct {
	Repo       model.Repository
	Enrichment model.Enrichment
	Degraded   bool
	Reason     string
}

// SearchService composes the query builder, rate limiter, result cache,
// and quality scorer into the search pipeline.
type SearchService struct {
	client     driven.SearchClient
	limiter    *RateLimiter
	cache      *TTLCache[model.SearchPage]
	exclusions driven.ExclusionStore
	scorer     *QualityScorer
	pageSize   int
	now        func() time.Time
}

// NewSearchService creates a SearchService with all required dependencies.
func NewSearchService(
	client driven.SearchClient,
	limiter *RateLimiter,
	cache *TTLCache[model.SearchPage],
	exclusions driven.ExclusionStore,
	scorer *QualityScorer,
) *SearchService {
	return &SearchService{
		client:     client,
		limiter:    limiter,
		cache:      cache,
		exclusions: exclusions,
		scorer:     scorer,
		pageSize:   defaultPageSize,
		now:        time.Now,
	}
}

// Search runs one page of the search pipeline: canonical cache key, cache
// check, rate-limit wait, external call, per-item scoring, post-filters
// the dialect cannot express, cache write. A cache hit returns immediately
// without waiting on the limiter or touching the API.
func (s *SearchService) Search(ctx context.Context, query string, filters model.SearchFilters, page int) (*model.SearchPage, error) {
	if page < 1 {
		page = 1
	}

	exclusions, err := s.exclusions.ListAll(ctx)
	if err != nil {
		// A missing exclusion list degrades to no exclusions; it must not
		// fail the search.
		slog.Warn("exclusion list unavailable", "error", err)
		exclusions = nil
	}

	builder := NewQueryBuilder(exclusions)
	built := builder.Build(query, filters)
	key := fmt.Sprintf("%s|%s|%s|%d|%d", built, filters.Sort, filters.Order, filters.MinQuality, page)

	if cached, ok := s.cache.Get(key); ok {
		slog.Debug("search cache hit", "key", key)
		return &cached, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	raw, err := s.client.SearchRepositories(ctx, built, filters.Sort, filters.Order, page, s.pageSize)
	if err != nil {
		slog.Error("search call failed", "query", built, "page", page, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	s.limiter.UpdateLimits(raw.Rate.Remaining, raw.Rate.Reset.Unix())

	// hasMore approximates from a full page; wrong exactly at a result
	// boundary, which is accepted because the API's totals are themselves
	// approximate for large result sets.
	hasMore := len(raw.Repositories) == s.pageSize

	scored := make([]model.Repository, 0, len(raw.Repositories))
	for _, repo := range raw.Repositories {
		score := s.scorer.Score(repo)
		repo.QualityScore = &score
		if filters.MinQuality > 0 && score < filters.MinQuality {
			continue
		}
		scored = append(scored, repo)
	}

	result := model.SearchPage{
		Repositories: scored,
		TotalCount:   raw.TotalCount,
		Page:         page,
		HasMore:      hasMore,
	}
	if hasMore {
		result.NextPage = page + 1
	}

	s.cache.Set(key, result)
	return &result, nil
}

// Trending returns repositories created within the timeframe's window,
// sorted by stars. It reuses the full search pipeline, including the
// cache and rate limiter.
func (s *SearchService) Trending(ctx context.Context, timeframe model.Timeframe, language string) (*model.SearchPage, error) {
	days, ok := timeframeDays[timeframe]
	if !ok {
		days = timeframeDays[model.TimeframeWeekly]
	}
	since := s.now().AddDate(0, 0, -days).Format("2006-01-02")

	filters := model.SearchFilters{
		Language: language,
		Sort:     model.SortStars,
		Order:    model.OrderDesc,
	}
	return s.Search(ctx, "created:>"+since, filters, 1)
}

// Inspect resolves one repository by full name and returns it enriched
// with its language breakdown, contributor count, and enhanced score. The
// lookup goes through the rate limiter; a missing repository passes
// driven.ErrRepositoryNotFound through, any other lookup failure maps to
// ErrSearchFailed.
func (s *SearchService) Inspect(ctx context.Context, fullName string) (*EnrichedRepository, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	repo, err := s.client.FetchRepository(ctx, fullName)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) {
			return nil, err
		}
		slog.Error("repository lookup failed", "repo", fullName, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	enriched := s.Enrich(ctx, *repo)
	return &enriched, nil
}

// Health reports the tracked rate-limit quota and the number of cached
// result pages.
func (s *SearchService) Health() (rateRemaining, cachedPages int) {
	return s.limiter.Remaining(), s.cache.Len()
}

// Enrich fetches the language breakdown and contributor count for one
// repository concurrently and recomputes its quality score with the
// enhanced formula. Each sub-call failure is swallowed and replaced with
// an empty default; the enhanced formula only applies when both lookups
// succeeded, otherwise the result keeps the standard score and records
// why it degraded.
func (s *SearchService) Enrich(ctx context.Context, repo model.Repository) EnrichedRepository {
	var (
		languages    map[string]int
		languagesErr error
		contributors int
		contribErr   error
	)

	// One failed lookup must not cancel the other, so errors are captured
	// rather than returned through the group.
	var g errgroup.Group
	g.Go(func() error {
		languages, languagesErr = s.client.FetchLanguages(ctx, repo.FullName)
		return nil
	})
	g.Go(func() error {
		contributors, contribErr = s.client.FetchContributorCount(ctx, repo.FullName)
		return nil
	})
	_ = g.Wait()

	enrichment := model.Enrichment{Languages: languages, ContributorCount: contributors}

	var reasons []string
	if languagesErr != nil {
		enrichment.Languages = nil
		reasons = append(reasons, fmt.Sprintf("languages: %v", languagesErr))
	}
	if contribErr != nil {
		enrichment.ContributorCount = 0
		reasons = append(reasons, fmt.Sprintf("contributors: %v", contribErr))
	}

	if len(reasons) > 0 {
		reason := strings.Join(reasons, "; ")
		slog.Warn("enrichment degraded", "repo", repo.FullName, "reason", reason)
		score := s.scorer.Score(repo)
		repo.QualityScore = &score
		return EnrichedRepository{
			Repo:       repo,
			Enrichment: enrichment,
			Degraded:   true,
			Reason:     reason,
		}
	}

	score := s.scorer.ScoreEnhanced(repo, enrichment)
	repo.QualityScore = &score
	return EnrichedRepository{Repo: repo, Enrichment: enrichment}
}
