package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

func TestParseInsight_PlainJSON(t *testing.T) {
	raw := `{"overall_quality": 82, "issues": ["no CI"], "suggestions": ["add tests"], "security_score": 70, "maintainability_score": 75}`

	insight, err := parseInsight(raw)
	require.NoError(t, err)

	assert.Equal(t, 82, insight.OverallQuality)
	assert.Equal(t, []string{"no CI"}, insight.Issues)
	assert.Equal(t, []string{"add tests"}, insight.Suggestions)
	assert.Equal(t, 70, insight.SecurityScore)
	assert.Equal(t, 75, insight.MaintainabilityScore)
}

func TestParseInsight_MarkdownFencedJSON(t *testing.T) {
	raw := "```json\n{\"overall_quality\": 60, \"security_score\": 55, \"maintainability_score\": 50}\n```"

	insight, err := parseInsight(raw)
	require.NoError(t, err)
	assert.Equal(t, 60, insight.OverallQuality)
}

func TestParseInsight_SurroundingProse(t *testing.T) {
	raw := `Here is my assessment: {"overall_quality": 45, "issues": []} Hope that helps!`

	insight, err := parseInsight(raw)
	require.NoError(t, err)
	assert.Equal(t, 45, insight.OverallQuality)
}

func TestParseInsight_MissingArraysBecomeEmpty(t *testing.T) {
	insight, err := parseInsight(`{"overall_quality": 50}`)
	require.NoError(t, err)

	assert.NotNil(t, insight.Issues)
	assert.Empty(t, insight.Issues)
	assert.NotNil(t, insight.Suggestions)
	assert.Empty(t, insight.Suggestions)
}

func TestParseInsight_NoJSONObject(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":       "",
		"prose only":  "I cannot analyze this repository.",
		"reversed":    "} {",
		"open brace":  "{",
		"close brace": "}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseInsight(raw)
			assert.ErrorIs(t, err, driven.ErrAnalysisUnavailable)
		})
	}
}

func TestParseInsight_MalformedJSON(t *testing.T) {
	_, err := parseInsight(`{"overall_quality": "not a number"}`)
	assert.ErrorIs(t, err, driven.ErrAnalysisUnavailable)
}

func TestBuildPrompt(t *testing.T) {
	repo := model.Repository{
		FullName:    "acme/cli",
		URL:         "https://github.com/acme/cli",
		Description: "A command line tool",
		Language:    "Go",
		Topics:      []string{"cli", "tooling"},
		Stars:       4200,
		Forks:       310,
		OpenIssues:  25,
	}

	prompt := buildPrompt(repo)

	assert.Contains(t, prompt, "acme/cli")
	assert.Contains(t, prompt, "cli, tooling")
	assert.Contains(t, prompt, "Stars: 4200, Forks: 310, Open issues: 25")
	assert.True(t, strings.Contains(prompt, "overall_quality"))
	assert.True(t, strings.Contains(prompt, "security_score"))
	assert.True(t, strings.Contains(prompt, "maintainability_score"))
}
