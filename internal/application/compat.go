package application

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// Compatibility sub-score weights: framework agreement dominates, then
// dependency overlap, then structural similarity.
const (
	frameworkWeight    = 0.5
	dependencyWeight   = 0.3
	architectureWeight = 0.2
)

// incompatibleDependencyPairs lists dependency names known not to coexist
// in one project. A placeholder signal, not a real solver.
var incompatibleDependencyPairs = [][2]string{
	{"react", "vue"},
	{"react", "@angular/core"},
	{"vue", "@angular/core"},
	{"next", "@remix-run/react"},
	{"express", "fastapi"},
	{"express", "django"},
	{"fastapi", "django"},
}

// ComputeCompatibility aggregates pairwise analysis of two or more
// analyzed repositories into a single report. Callers handle the
// fewer-than-two case before calling; this function assumes len >= 2.
func ComputeCompatibility(analyses []model.RepoAnalysis) model.CompatibilityReport {
	fw := frameworkScore(analyses)
	deps := dependencyScore(analyses)
	arch := architectureScore(analyses)

	weighted := float64(fw)*frameworkWeight +
		float64(deps)*dependencyWeight +
		float64(arch)*architectureWeight
	score := int(math.Round(weighted))

	conflicts := detectConflicts(analyses, arch)
	suggestions := buildSuggestions(score, conflicts)

	return model.CompatibilityReport{
		Score:       score,
		Conflicts:   conflicts,
		Suggestions: suggestions,
	}
}

// frameworkScore rates framework agreement: fewer distinct frameworks
// means a higher score. A single shared framework scores 100.
func frameworkScore(analyses []model.RepoAnalysis) int {
	distinct := distinctFrameworks(analyses)
	score := 100 - 35*(len(distinct)-1)
	if score < 10 {
		score = 10
	}
	return score
}

// dependencyScore blends the shared-dependency ratio with penalties for
// known-incompatible pairs present anywhere in the union.
func dependencyScore(analyses []model.RepoAnalysis) int {
	union := make(map[string]int)
	for _, a := range analyses {
		for _, dep := range a.Dependencies {
			union[dep]++
		}
	}
	if len(union) == 0 {
		return 100
	}

	shared := 0
	for _, count := range union {
		if count == len(analyses) {
			shared++
		}
	}
	score := 50.0 + 50.0*float64(shared)/float64(len(union))

	for _, pair := range incompatibleDependencyPairs {
		if _, a := union[pair[0]]; a {
			if _, b := union[pair[1]]; b {
				score -= 30
			}
		}
	}

	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}

// architectureScore is the Jaccard similarity of the inferred folder sets,
// scaled to 0-100. Wildly different layouts score low.
func architectureScore(analyses []model.RepoAnalysis) int {
	union := make(map[string]int)
	for _, a := range analyses {
		seen := make(map[string]struct{})
		for _, folder := range a.Structure.Folders {
			if _, dup := seen[folder]; dup {
				continue
			}
			seen[folder] = struct{}{}
			union[folder]++
		}
	}
	if len(union) == 0 {
		return 100
	}

	shared := 0
	for _, count := range union {
		if count == len(analyses) {
			shared++
		}
	}
	return int(math.Round(100 * float64(shared) / float64(len(union))))
}

// detectConflicts emits one conflict per observed incompatibility class.
func detectConflicts(analyses []model.RepoAnalysis, archScore int) []model.Conflict {
	var conflicts []model.Conflict
	allRepos := fullNames(analyses)

	if distinct := distinctFrameworks(analyses); len(distinct) > 1 {
		conflicts = append(conflicts, model.Conflict{
			Type:        model.ConflictTypeFramework,
			Description: fmt.Sprintf("multiple frameworks detected: %s", strings.Join(distinct, ", ")),
			Repos:       allRepos,
		})
	}

	union := make(map[string][]string) // dependency -> repos carrying it
	for _, a := range analyses {
		for _, dep := range a.Dependencies {
			union[dep] = append(union[dep], a.Repo.FullName)
		}
	}
	for _, pair := range incompatibleDependencyPairs {
		left, hasLeft := union[pair[0]]
		right, hasRight := union[pair[1]]
		if hasLeft && hasRight {
			conflicts = append(conflicts, model.Conflict{
				Type:        model.ConflictTypeDependency,
				Description: fmt.Sprintf("incompatible dependencies: %s and %s", pair[0], pair[1]),
				Repos:       dedupeStrings(append(left, right...)),
			})
		}
	}

	if archScore < 50 {
		conflicts = append(conflicts, model.Conflict{
			Type:        model.ConflictTypeArchitecture,
			Description: "structural layouts diverge significantly",
			Repos:       allRepos,
		})
	}

	return conflicts
}

// buildSuggestions derives guidance from the score band and the detected
// conflict classes.
func buildSuggestions(score int, conflicts []model.Conflict) []string {
	var suggestions []string

	hasFrameworkConflict := false
	for _, c := range conflicts {
		if c.Type == model.ConflictTypeFramework {
			hasFrameworkConflict = true
		}
	}

	switch {
	case score >= 80:
		suggestions = append(suggestions, "repositories are highly compatible; a unified merge should work well")
	case score >= 50:
		suggestions = append(suggestions, "repositories are partially compatible; review the listed conflicts before combining")
	default:
		suggestions = append(suggestions, "repositories are largely incompatible; consider combining fewer of them")
	}

	if hasFrameworkConflict {
		suggestions = append(suggestions,
			"pick a single target framework explicitly, or use a micro-frontend dependency strategy to keep frameworks isolated")
	}

	return suggestions
}

// distinctFrameworks returns the distinct detected framework names in
// first-seen order.
func distinctFrameworks(analyses []model.RepoAnalysis) []string {
	seen := make(map[model.Framework]struct{})
	var distinct []string
	for _, a := range analyses {
		if _, ok := seen[a.Framework]; ok {
			continue
		}
		seen[a.Framework] = struct{}{}
		distinct = append(distinct, string(a.Framework))
	}
	return distinct
}

func fullNames(analyses []model.RepoAnalysis) []string {
	names := make([]string, 0, len(analyses))
	for _, a := range analyses {
		names = append(names, a.Repo.FullName)
	}
	return names
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
