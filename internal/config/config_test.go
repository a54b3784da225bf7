package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REPOFORGE_GITHUB_TOKEN", "")
	t.Setenv("REPOFORGE_GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "repoforge.db", cfg.DBPath)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.HasGitHubToken())
	assert.False(t, cfg.HasGeminiKey())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REPOFORGE_GITHUB_TOKEN", "ghp_test")
	t.Setenv("REPOFORGE_GEMINI_API_KEY", "gm_test")
	t.Setenv("REPOFORGE_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("REPOFORGE_DB_PATH", "/tmp/engine.db")
	t.Setenv("REPOFORGE_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, "gm_test", cfg.GeminiAPIKey)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/engine.db", cfg.DBPath)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.HasGitHubToken())
	assert.True(t, cfg.HasGeminiKey())
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("REPOFORGE_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPOFORGE_CACHE_TTL")
}
