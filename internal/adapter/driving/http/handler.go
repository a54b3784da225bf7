// Package httphandler is the HTTP driving adapter exposing the engine's
// API to the presentation layer. All inputs and outputs are plain JSON
// records.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/repoforge/internal/application"
	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	searchSvc  *application.SearchService
	combineSvc *application.CombineService
	exclusions driven.ExclusionStore
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	searchSvc *application.SearchService,
	combineSvc *application.CombineService,
	exclusions driven.ExclusionStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		searchSvc:  searchSvc,
		combineSvc: combineSvc,
		exclusions: exclusions,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/trending", h.Trending)
	mux.HandleFunc("GET /api/v1/repositories/{owner}/{repo}", h.InspectRepository)
	mux.HandleFunc("POST /api/v1/compatibility", h.AnalyzeCompatibility)
	mux.HandleFunc("POST /api/v1/combinations", h.Combine)
	mux.HandleFunc("GET /api/v1/combinations", h.ListCombinations)
	mux.HandleFunc("GET /api/v1/combinations/{id}", h.GetCombination)
	mux.HandleFunc("GET /api/v1/exclusions", h.ListExclusions)
	mux.HandleFunc("POST /api/v1/exclusions", h.AddExclusion)
	mux.HandleFunc("DELETE /api/v1/exclusions/{login}", h.RemoveExclusion)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Search runs a repository search with the filters parsed from the query string.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	filters, err := parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
	}

	result, err := h.searchSvc.Search(r.Context(), query, filters, page)
	if err != nil {
		if errors.Is(err, application.ErrSearchFailed) {
			writeError(w, http.StatusBadGateway, "search failed")
			return
		}
		h.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(result))
}

// Trending returns repositories created within the requested timeframe.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	timeframe := model.Timeframe(r.URL.Query().Get("timeframe"))
	if timeframe == "" {
		timeframe = model.TimeframeWeekly
	}
	language := r.URL.Query().Get("language")

	result, err := h.searchSvc.Trending(r.Context(), timeframe, language)
	if err != nil {
		if errors.Is(err, application.ErrSearchFailed) {
			writeError(w, http.StatusBadGateway, "search failed")
			return
		}
		h.logger.Error("trending failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(result))
}

// InspectRepository returns one repository with enrichment data and the
// enhanced quality score.
func (h *Handler) InspectRepository(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	enriched, err := h.searchSvc.Inspect(r.Context(), fullName)
	if err != nil {
		switch {
		case errors.Is(err, driven.ErrRepositoryNotFound):
			writeError(w, http.StatusNotFound, "repository not found")
		case errors.Is(err, application.ErrSearchFailed):
			writeError(w, http.StatusBadGateway, "repository lookup failed")
		default:
			h.logger.Error("repository lookup failed", "repo", fullName, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toEnrichedRepositoryResponse(*enriched))
}

// AnalyzeCompatibility analyzes the posted repositories for combinability.
func (h *Handler) AnalyzeCompatibility(w http.ResponseWriter, r *http.Request) {
	var req CompatibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	repos := make([]model.Repository, 0, len(req.Repositories))
	for _, rr := range req.Repositories {
		repos = append(repos, rr.toModel())
	}

	report := h.combineSvc.AnalyzeCompatibility(r.Context(), repos)
	writeJSON(w, http.StatusOK, toCompatibilityResponse(report))
}

// Combine merges the posted repositories into a new combination.
func (h *Handler) Combine(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	repos := make([]model.Repository, 0, len(req.Repositories))
	for _, rr := range req.Repositories {
		repos = append(repos, rr.toModel())
	}

	combo, err := h.combineSvc.Combine(r.Context(), model.CombinationRequest{
		Repositories:     repos,
		Name:             req.Name,
		TargetFramework:  model.Framework(req.TargetFramework),
		Features:         req.Features,
		ConflictPolicy:   model.ConflictPolicy(req.ConflictPolicy),
		ComponentPolicy:  model.ComponentPolicy(req.ComponentPolicy),
		DependencyPolicy: model.DependencyPolicy(req.DependencyPolicy),
	})
	if err != nil {
		if errors.Is(err, application.ErrEmptyCombination) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("combine failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCombinationResponse(*combo))
}

// GetCombination returns a single combination by ID.
func (h *Handler) GetCombination(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	combo, ok := h.combineSvc.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "combination not found")
		return
	}
	writeJSON(w, http.StatusOK, toCombinationResponse(*combo))
}

// ListCombinations returns all combinations, newest first.
func (h *Handler) ListCombinations(w http.ResponseWriter, r *http.Request) {
	combos := h.combineSvc.List()
	resp := make([]CombinationResponse, 0, len(combos))
	for _, combo := range combos {
		resp = append(resp, toCombinationResponse(combo))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListExclusions returns the persistent exclusion list.
func (h *Handler) ListExclusions(w http.ResponseWriter, r *http.Request) {
	logins, err := h.exclusions.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list exclusions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if logins == nil {
		logins = []string{}
	}
	writeJSON(w, http.StatusOK, logins)
}

// AddExclusion adds a login to the exclusion list.
func (h *Handler) AddExclusion(w http.ResponseWriter, r *http.Request) {
	var req ExclusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	login := strings.TrimSpace(req.Login)
	if login == "" {
		writeError(w, http.StatusBadRequest, "login is required")
		return
	}

	if err := h.exclusions.Add(r.Context(), login); err != nil {
		if errors.Is(err, driven.ErrExclusionExists) {
			writeError(w, http.StatusConflict, "login already excluded")
			return
		}
		h.logger.Error("failed to add exclusion", "login", login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveExclusion removes a login from the exclusion list.
func (h *Handler) RemoveExclusion(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	if err := h.exclusions.Remove(r.Context(), login); err != nil {
		if errors.Is(err, driven.ErrExclusionNotFound) {
			writeError(w, http.StatusNotFound, "login not excluded")
			return
		}
		h.logger.Error("failed to remove exclusion", "login", login, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness plus the tracked rate quota and cache size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rateRemaining, cachedPages := h.searchSvc.Health()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		RateRemaining: rateRemaining,
		CachedPages:   cachedPages,
	})
}

// parseFilters builds SearchFilters from query parameters. Tri-state flags
// accept "true" or "false" and are omitted when absent.
func parseFilters(r *http.Request) (model.SearchFilters, error) {
	q := r.URL.Query()
	var filters model.SearchFilters

	filters.Language = q.Get("language")

	var err error
	if filters.MinStars, err = parseIntParam(q.Get("min_stars")); err != nil {
		return filters, errors.New("min_stars must be a non-negative integer")
	}
	if filters.MaxStars, err = parseIntParam(q.Get("max_stars")); err != nil {
		return filters, errors.New("max_stars must be a non-negative integer")
	}
	if filters.MinQuality, err = parseIntParam(q.Get("min_quality")); err != nil {
		return filters, errors.New("min_quality must be a non-negative integer")
	}

	if topics := q.Get("topics"); topics != "" {
		for _, topic := range strings.Split(topics, ",") {
			if topic = strings.TrimSpace(topic); topic != "" {
				filters.Topics = append(filters.Topics, topic)
			}
		}
	}

	if filters.HasIssues, err = parseBoolParam(q.Get("has_issues")); err != nil {
		return filters, errors.New("has_issues must be true or false")
	}
	if filters.HasWiki, err = parseBoolParam(q.Get("has_wiki")); err != nil {
		return filters, errors.New("has_wiki must be true or false")
	}
	if filters.HasPages, err = parseBoolParam(q.Get("has_pages")); err != nil {
		return filters, errors.New("has_pages must be true or false")
	}
	if filters.Archived, err = parseBoolParam(q.Get("archived")); err != nil {
		return filters, errors.New("archived must be true or false")
	}
	if filters.Fork, err = parseBoolParam(q.Get("fork")); err != nil {
		return filters, errors.New("fork must be true or false")
	}

	filters.Size = model.SizeBucket(q.Get("size"))
	filters.Activity = model.ActivityBucket(q.Get("activity"))
	filters.Sort = model.SortKey(q.Get("sort"))
	filters.Order = model.SortOrder(q.Get("order"))

	return filters, nil
}

func parseIntParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

func parseBoolParam(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.New("invalid boolean")
	}
	return &b, nil
}
