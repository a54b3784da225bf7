package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// ErrEmptyCombination indicates a combine request named no repositories.
var ErrEmptyCombination = errors.New("combination requires at least one repository")

// needMoreDataSuggestion is the guidance returned when fewer than two
// repositories are supplied for compatibility analysis.
const needMoreDataSuggestion = "add at least two repositories to analyze compatibility"

// fallbackInsight is substituted whenever the LLM collaborator is absent,
// fails, or returns unusable output.
var fallbackInsight = model.RepoInsight{
	OverallQuality:       50,
	Issues:               []string{},
	Suggestions:          []string{},
	SecurityScore:        50,
	MaintainabilityScore: 50,
}

// maxIDPrefixLen bounds the sorted-ids part of a combination ID.
const maxIDPrefixLen = 24

// CombineService is the compatibility and merge-strategy engine. Results
// live in an in-memory registry for the process lifetime and are written
// through to the store for durability across restarts. The analyzer is
// optional; a nil analyzer means every insight degrades to the fallback.
type CombineService struct {
	scorer   *QualityScorer
	analyzer driven.RepoAnalyzer
	store    driven.CombinationStore

	mu     sync.RWMutex
	combos map[string]model.CombinationResult

	now func() time.Time
}

// NewCombineService creates a CombineService. analyzer may be nil.
func NewCombineService(scorer *QualityScorer, analyzer driven.RepoAnalyzer, store driven.CombinationStore) *CombineService {
	return &CombineService{
		scorer:   scorer,
		analyzer: analyzer,
		store:    store,
		combos:   make(map[string]model.CombinationResult),
		now:      time.Now,
	}
}

// LoadPersisted fills the in-memory registry from the store. Called once
// at startup, before the service handles requests.
func (s *CombineService) LoadPersisted(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	combos, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted combinations: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, combo := range combos {
		s.combos[combo.ID] = combo
	}
	return nil
}

// AnalyzeCompatibility analyzes a set of repositories for combinability.
// Fewer than two repositories yield a neutral score of 100 with a
// guidance suggestion and no conflicts, never an analyzed score.
func (s *CombineService) AnalyzeCompatibility(ctx context.Context, repos []model.Repository) model.CompatibilityReport {
	if len(repos) < 2 {
		return model.CompatibilityReport{
			Score:       100,
			Conflicts:   []model.Conflict{},
			Suggestions: []string{needMoreDataSuggestion},
		}
	}

	analyses := make([]model.RepoAnalysis, 0, len(repos))
	for _, repo := range dedupeRepositories(repos) {
		analyses = append(analyses, AnalyzeRepository(repo, s.scorer))
	}

	report := ComputeCompatibility(analyses)

	// LLM suggestions enrich the report when available; a degraded outcome
	// contributes nothing rather than failing the analysis.
	for _, a := range analyses {
		outcome := s.insightFor(ctx, a.Repo)
		if outcome.Degraded {
			continue
		}
		for _, suggestion := range outcome.Insight.Suggestions {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("%s: %s", a.Repo.FullName, suggestion))
		}
	}

	return report
}

// Combine merges the requested repositories into one project skeleton.
func (s *CombineService) Combine(ctx context.Context, req model.CombinationRequest) (*model.CombinationResult, error) {
	repos := dedupeRepositories(req.Repositories)
	if len(repos) == 0 {
		return nil, ErrEmptyCombination
	}

	analyses := make([]model.RepoAnalysis, 0, len(repos))
	for _, repo := range repos {
		analyses = append(analyses, AnalyzeRepository(repo, s.scorer))
	}

	strategy := selectStrategy(req, analyses)
	now := s.now()

	combo := model.CombinationResult{
		ID:           combinationID(repos, now),
		Name:         combinationName(req, repos),
		Description:  combinationDescription(repos),
		Strategy:     strategy,
		Structure:    StructureFor(strategy.TargetFramework),
		Dependencies: unionDependencies(analyses),
		Features:     unionFeatures(analyses, req.Features),
		Scripts:      ScriptsFor(strategy.TargetFramework),
		Deployment:   deploymentFor(strategy.TargetFramework),
		Sources:      sourceNames(repos),
		CreatedAt:    now,
	}
	combo.Files = fileStubs(combo.Structure)
	combo.Instructions = buildInstructions(combo)

	s.mu.Lock()
	s.combos[combo.ID] = combo
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(ctx, combo); err != nil {
			// Persistence is a durability supplement; the in-memory result
			// is already authoritative for this process.
			slog.Error("persisting combination failed", "id", combo.ID, "error", err)
		}
	}

	return &combo, nil
}

// Get returns the combination with the given ID, if present.
func (s *CombineService) Get(id string) (*model.CombinationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	combo, ok := s.combos[id]
	if !ok {
		return nil, false
	}
	return &combo, true
}

// List returns all combinations ordered by creation time, newest first.
func (s *CombineService) List() []model.CombinationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	combos := make([]model.CombinationResult, 0, len(s.combos))
	for _, combo := range s.combos {
		combos = append(combos, combo)
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].CreatedAt.Equal(combos[j].CreatedAt) {
			return combos[i].ID < combos[j].ID
		}
		return combos[i].CreatedAt.After(combos[j].CreatedAt)
	})
	return combos
}

// insightFor consults the LLM collaborator, substituting the fixed
// fallback record on any failure.
func (s *CombineService) insightFor(ctx context.Context, repo model.Repository) model.AnalysisOutcome {
	if s.analyzer == nil {
		return model.AnalysisOutcome{
			Insight:  fallbackInsight,
			Degraded: true,
			Reason:   "analyzer not configured",
		}
	}

	insight, err := s.analyzer.Analyze(ctx, repo)
	if err != nil {
		slog.Warn("llm analysis degraded", "repo", repo.FullName, "error", err)
		return model.AnalysisOutcome{
			Insight:  fallbackInsight,
			Degraded: true,
			Reason:   err.Error(),
		}
	}
	return model.AnalysisOutcome{Insight: *insight}
}

// selectStrategy picks the target framework (caller's choice, else most
// frequent detected, first-seen on ties) and applies the engine default
// policies unless the request overrides them.
func selectStrategy(req model.CombinationRequest, analyses []model.RepoAnalysis) model.MergeStrategy {
	target := req.TargetFramework
	if target == "" {
		target = mostFrequentFramework(analyses)
	}

	strategy := model.MergeStrategy{
		TargetFramework:  target,
		ConflictPolicy:   model.ConflictSmartMerge,
		ComponentPolicy:  model.ComponentsSelective,
		DependencyPolicy: model.DependenciesUnified,
	}
	if req.ConflictPolicy != "" {
		strategy.ConflictPolicy = req.ConflictPolicy
	}
	if req.ComponentPolicy != "" {
		strategy.ComponentPolicy = req.ComponentPolicy
	}
	if req.DependencyPolicy != "" {
		strategy.DependencyPolicy = req.DependencyPolicy
	}
	return strategy
}

// mostFrequentFramework returns the most common detected framework,
// breaking ties by input order (first seen wins).
func mostFrequentFramework(analyses []model.RepoAnalysis) model.Framework {
	counts := make(map[model.Framework]int)
	var order []model.Framework
	for _, a := range analyses {
		if counts[a.Framework] == 0 {
			order = append(order, a.Framework)
		}
		counts[a.Framework]++
	}

	best := model.FrameworkUnknown
	bestCount := 0
	for _, fw := range order {
		if counts[fw] > bestCount {
			best = fw
			bestCount = counts[fw]
		}
	}
	return best
}

// combinationID derives an ID from the sorted repository IDs, truncated,
// plus the creation timestamp. Deterministic enough for idempotent
// caching within a run.
func combinationID(repos []model.Repository, now time.Time) string {
	ids := make([]int64, 0, len(repos))
	for _, repo := range repos {
		ids = append(ids, repo.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	prefix := strings.Join(parts, "-")
	if len(prefix) > maxIDPrefixLen {
		prefix = prefix[:maxIDPrefixLen]
	}
	return fmt.Sprintf("combo-%s-%d", prefix, now.Unix())
}

func combinationName(req model.CombinationRequest, repos []model.Repository) string {
	if req.Name != "" {
		return req.Name
	}
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name)
	}
	return strings.Join(names, "-")
}

func combinationDescription(repos []model.Repository) string {
	return fmt.Sprintf("Combination of %d repositories: %s",
		len(repos), strings.Join(sourceNames(repos), ", "))
}

// unionDependencies unions and deduplicates all inferred dependency sets,
// sorted for deterministic output.
func unionDependencies(analyses []model.RepoAnalysis) []string {
	seen := make(map[string]struct{})
	for _, a := range analyses {
		for _, dep := range a.Dependencies {
			seen[dep] = struct{}{}
		}
	}
	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// unionFeatures merges inferred features with the caller's requested
// feature tags, deduplicated and sorted.
func unionFeatures(analyses []model.RepoAnalysis, requested []string) []string {
	seen := make(map[string]struct{})
	for _, a := range analyses {
		for _, feature := range a.Features {
			seen[feature] = struct{}{}
		}
	}
	for _, feature := range requested {
		if feature != "" {
			seen[feature] = struct{}{}
		}
	}
	features := make([]string, 0, len(seen))
	for feature := range seen {
		features = append(features, feature)
	}
	sort.Strings(features)
	return features
}

// deploymentFor generates the deployment hint set for the target
// framework. The output directory is framework-specific.
func deploymentFor(framework model.Framework) model.DeploymentConfig {
	outputDir := "build"
	if framework == model.FrameworkNextJS {
		outputDir = ".next"
	}

	envVars := []string{"NODE_ENV"}
	switch framework {
	case model.FrameworkNextJS:
		envVars = append(envVars, "NEXT_PUBLIC_API_URL")
	case model.FrameworkFastAPI, model.FrameworkDjango:
		envVars = []string{"DATABASE_URL", "SECRET_KEY"}
	}

	return model.DeploymentConfig{
		Platform:     "vercel",
		BuildCommand: ScriptsFor(framework)["build"],
		OutputDir:    outputDir,
		EnvVars:      envVars,
	}
}

// fileStubs generates placeholder files for the skeleton's config files
// and entry points.
func fileStubs(structure model.ProjectStructure) []model.FileStub {
	stubs := make([]model.FileStub, 0, len(structure.ConfigFiles)+len(structure.EntryPoints)+1)
	for _, path := range structure.ConfigFiles {
		stubs = append(stubs, model.FileStub{Path: path, Purpose: "configuration"})
	}
	for _, path := range structure.EntryPoints {
		stubs = append(stubs, model.FileStub{Path: path, Purpose: "entry point"})
	}
	stubs = append(stubs, model.FileStub{Path: "README.md", Purpose: "setup instructions"})
	return stubs
}

// buildInstructions renders ordered human-readable setup steps
// interpolating the chosen folder structure and source repositories.
func buildInstructions(combo model.CombinationResult) []string {
	return []string{
		fmt.Sprintf("1. Create the project root %q and the folders: %s.",
			combo.Name, strings.Join(combo.Structure.Folders, ", ")),
		fmt.Sprintf("2. Install the unified dependencies: %s.",
			strings.Join(combo.Dependencies, ", ")),
		fmt.Sprintf("3. Port code from the source repositories (%s) into the %s skeleton, resolving conflicts with the %s policy.",
			strings.Join(combo.Sources, ", "), combo.Strategy.TargetFramework, combo.Strategy.ConflictPolicy),
		fmt.Sprintf("4. Run %q to verify the development build.", combo.Scripts["dev"]),
		fmt.Sprintf("5. Deploy with %q; the build output lands in %q.",
			combo.Deployment.BuildCommand, combo.Deployment.OutputDir),
	}
}

func sourceNames(repos []model.Repository) []string {
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.FullName)
	}
	return names
}

// dedupeRepositories drops duplicate repositories by ID, preserving input
// order. ID is the sole identity key.
func dedupeRepositories(repos []model.Repository) []model.Repository {
	seen := make(map[int64]struct{}, len(repos))
	var out []model.Repository
	for _, repo := range repos {
		if _, ok := seen[repo.ID]; ok {
			continue
		}
		seen[repo.ID] = struct{}{}
		out = append(out, repo)
	}
	return out
}
