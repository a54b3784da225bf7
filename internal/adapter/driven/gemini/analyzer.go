// Package gemini implements the RepoAnalyzer port using Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepoAnalyzer = (*Analyzer)(nil)

const modelName = "gemini-2.5-flash-lite"

// Analyzer implements the driven.RepoAnalyzer port against the Gemini API.
// All failures map to driven.ErrAnalysisUnavailable so callers can
// substitute the fallback insight without inspecting transport errors.
type Analyzer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewAnalyzer creates an Analyzer with a JSON-only response contract.
func NewAnalyzer(ctx context.Context, apiKey string) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	// Forcing JSON output lowers the odds of unparsable responses.
	m.ResponseMIMEType = "application/json"

	return &Analyzer{client: client, model: m}, nil
}

// Close releases the underlying client.
func (a *Analyzer) Close() error {
	return a.client.Close()
}

// Analyze asks the model for a structured assessment of the repository.
func (a *Analyzer) Analyze(ctx context.Context, repo model.Repository) (*model.RepoInsight, error) {
	prompt := buildPrompt(repo)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", driven.ErrAnalysisUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", driven.ErrAnalysisUnavailable)
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("%w: non-text response part", driven.ErrAnalysisUnavailable)
	}

	insight, err := parseInsight(string(text))
	if err != nil {
		return nil, err
	}
	return insight, nil
}

// buildPrompt renders the repository summary handed to the model.
func buildPrompt(repo model.Repository) string {
	return fmt.Sprintf(`You are a senior software engineer reviewing an open-source repository from its metadata.

Repository: %s
URL: %s
Description: %s
Primary language: %s
Topics: %s
Stars: %d, Forks: %d, Open issues: %d

Return a JSON object with exactly these fields:
1. overall_quality (0-100): overall code and project quality estimate.
2. issues: array of short strings naming likely problems.
3. suggestions: array of short strings with concrete improvements.
4. security_score (0-100).
5. maintainability_score (0-100).

Return only the JSON object, no markdown fences.`,
		repo.FullName, repo.URL, repo.Description, repo.Language,
		strings.Join(repo.Topics, ", "), repo.Stars, repo.Forks, repo.OpenIssues)
}

// parseInsight extracts the JSON object from the model output. The model
// sometimes wraps JSON in markdown fences despite instructions, so the
// parser cuts from the first '{' to the last '}' before unmarshaling.
func parseInsight(raw string) (*model.RepoInsight, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", driven.ErrAnalysisUnavailable)
	}

	var insight model.RepoInsight
	if err := json.Unmarshal([]byte(raw[start:end+1]), &insight); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", driven.ErrAnalysisUnavailable, err)
	}

	if insight.Issues == nil {
		insight.Issues = []string{}
	}
	if insight.Suggestions == nil {
		insight.Suggestions = []string{}
	}
	return &insight, nil
}
