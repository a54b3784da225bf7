package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/repoforge/internal/application"
	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// RepositoryResponse is the JSON representation of a repository.
type RepositoryResponse struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"full_name"`
	Owner        string   `json:"owner"`
	AvatarURL    string   `json:"avatar_url"`
	Name         string   `json:"name"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Language     string   `json:"language"`
	Topics       []string `json:"topics"`
	Stars        int      `json:"stars"`
	Forks        int      `json:"forks"`
	OpenIssues   int      `json:"open_issues"`
	License      string   `json:"license,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	QualityScore *int     `json:"quality_score"`
}

func toRepositoryResponse(repo model.Repository) RepositoryResponse {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}
	return RepositoryResponse{
		ID:           repo.ID,
		FullName:     repo.FullName,
		Owner:        repo.Owner,
		AvatarURL:    repo.OwnerAvatarURL,
		Name:         repo.Name,
		URL:          repo.URL,
		Description:  repo.Description,
		Language:     repo.Language,
		Topics:       topics,
		Stars:        repo.Stars,
		Forks:        repo.Forks,
		OpenIssues:   repo.OpenIssues,
		License:      repo.License,
		CreatedAt:    repo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    repo.UpdatedAt.Format(time.RFC3339),
		QualityScore: repo.QualityScore,
	}
}

// SearchResponse is the JSON representation of one search result page.
type SearchResponse struct {
	Repositories []RepositoryResponse `json:"repositories"`
	TotalCount   int                  `json:"total_count"`
	Page         int                  `json:"page"`
	HasMore      bool                 `json:"has_more"`
	NextPage     int                  `json:"next_page,omitempty"`
}

func toSearchResponse(page *model.SearchPage) SearchResponse {
	repos := make([]RepositoryResponse, 0, len(page.Repositories))
	for _, repo := range page.Repositories {
		repos = append(repos, toRepositoryResponse(repo))
	}
	return SearchResponse{
		Repositories: repos,
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		HasMore:      page.HasMore,
		NextPage:     page.NextPage,
	}
}

// EnrichedRepositoryResponse is the JSON representation of a repository
// detail lookup: the scored repository plus its enrichment data. Degraded
// is set when an enrichment lookup failed and the standard score was kept.
type EnrichedRepositoryResponse struct {
	Repository       RepositoryResponse `json:"repository"`
	Languages        map[string]int     `json:"languages"`
	ContributorCount int                `json:"contributor_count"`
	Degraded         bool               `json:"degraded"`
	Reason           string             `json:"reason,omitempty"`
}

func toEnrichedRepositoryResponse(e application.EnrichedRepository) EnrichedRepositoryResponse {
	languages := e.Enrichment.Languages
	if languages == nil {
		languages = map[string]int{}
	}
	return EnrichedRepositoryResponse{
		Repository:       toRepositoryResponse(e.Repo),
		Languages:        languages,
		ContributorCount: e.Enrichment.ContributorCount,
		Degraded:         e.Degraded,
		Reason:           e.Reason,
	}
}

// HealthResponse is the JSON representation of the health endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	RateRemaining int    `json:"rate_remaining"`
	CachedPages   int    `json:"cached_pages"`
}

// ConflictResponse is the JSON representation of a compatibility conflict.
type ConflictResponse struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Repos       []string `json:"repos"`
}

// CompatibilityResponse is the JSON representation of a compatibility report.
type CompatibilityResponse struct {
	Score       int                `json:"score"`
	Conflicts   []ConflictResponse `json:"conflicts"`
	Suggestions []string           `json:"suggestions"`
}

func toCompatibilityResponse(report model.CompatibilityReport) CompatibilityResponse {
	conflicts := make([]ConflictResponse, 0, len(report.Conflicts))
	for _, c := range report.Conflicts {
		conflicts = append(conflicts, ConflictResponse{
			Type:        string(c.Type),
			Description: c.Description,
			Repos:       c.Repos,
		})
	}
	suggestions := report.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return CompatibilityResponse{
		Score:       report.Score,
		Conflicts:   conflicts,
		Suggestions: suggestions,
	}
}

// FileStubResponse is the JSON representation of a generated file stub.
type FileStubResponse struct {
	Path    string `json:"path"`
	Purpose string `json:"purpose"`
}

// CombinationResponse is the JSON representation of a combination result.
type CombinationResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	TargetFramework  string             `json:"target_framework"`
	ConflictPolicy   string             `json:"conflict_policy"`
	ComponentPolicy  string             `json:"component_policy"`
	DependencyPolicy string             `json:"dependency_policy"`
	Folders          []string           `json:"folders"`
	EntryPoints      []string           `json:"entry_points"`
	ConfigFiles      []string           `json:"config_files"`
	Files            []FileStubResponse `json:"files"`
	Dependencies     []string           `json:"dependencies"`
	Features         []string           `json:"features"`
	Scripts          map[string]string  `json:"scripts"`
	Platform         string             `json:"platform"`
	BuildCommand     string             `json:"build_command"`
	OutputDir        string             `json:"output_dir"`
	EnvVars          []string           `json:"env_vars"`
	Instructions     []string           `json:"instructions"`
	Sources          []string           `json:"sources"`
	CreatedAt        string             `json:"created_at"`
}

func toCombinationResponse(combo model.CombinationResult) CombinationResponse {
	files := make([]FileStubResponse, 0, len(combo.Files))
	for _, f := range combo.Files {
		files = append(files, FileStubResponse{Path: f.Path, Purpose: f.Purpose})
	}
	return CombinationResponse{
		ID:               combo.ID,
		Name:             combo.Name,
		Description:      combo.Description,
		TargetFramework:  string(combo.Strategy.TargetFramework),
		ConflictPolicy:   string(combo.Strategy.ConflictPolicy),
		ComponentPolicy:  string(combo.Strategy.ComponentPolicy),
		DependencyPolicy: string(combo.Strategy.DependencyPolicy),
		Folders:          combo.Structure.Folders,
		EntryPoints:      combo.Structure.EntryPoints,
		ConfigFiles:      combo.Structure.ConfigFiles,
		Files:            files,
		Dependencies:     combo.Dependencies,
		Features:         combo.Features,
		Scripts:          combo.Scripts,
		Platform:         combo.Deployment.Platform,
		BuildCommand:     combo.Deployment.BuildCommand,
		OutputDir:        combo.Deployment.OutputDir,
		EnvVars:          combo.Deployment.EnvVars,
		Instructions:     combo.Instructions,
		Sources:          combo.Sources,
		CreatedAt:        combo.CreatedAt.Format(time.RFC3339),
	}
}

// RepositoryRequest is the inbound JSON shape for a repository supplied to
// compatibility and combine operations. Quality scores are intentionally
// absent: the engine always recomputes them.
type RepositoryRequest struct {
	ID          int64    `json:"id"`
	FullName    string   `json:"full_name"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	OpenIssues  int      `json:"open_issues"`
	UpdatedAt   string   `json:"updated_at"`
}

func (r RepositoryRequest) toModel() model.Repository {
	updatedAt, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return model.Repository{
		ID:          r.ID,
		FullName:    r.FullName,
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Language:    r.Language,
		Topics:      r.Topics,
		Stars:       r.Stars,
		Forks:       r.Forks,
		OpenIssues:  r.OpenIssues,
		UpdatedAt:   updatedAt,
	}
}

// CompatibilityRequest is the inbound JSON shape for compatibility analysis.
type CompatibilityRequest struct {
	Repositories []RepositoryRequest `json:"repositories"`
}

// CombineRequest is the inbound JSON shape for a combine operation.
type CombineRequest struct {
	Name             string              `json:"name"`
	TargetFramework  string              `json:"target_framework"`
	Features         []string            `json:"features"`
	ConflictPolicy   string              `json:"conflict_policy"`
	ComponentPolicy  string              `json:"component_policy"`
	DependencyPolicy string              `json:"dependency_policy"`
	Repositories     []RepositoryRequest `json:"repositories"`
}

// ExclusionRequest is the inbound JSON shape for adding an exclusion.
type ExclusionRequest struct {
	Login string `json:"login"`
}
