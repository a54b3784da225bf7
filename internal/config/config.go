// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	GeminiAPIKey string
	ListenAddr   string
	DBPath       string
	CacheTTL     time.Duration
}

// HasGitHubToken returns true when a GitHub token is configured. The
// engine runs anonymously without one, at the lower unauthenticated quota.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// HasGeminiKey returns true when the LLM collaborator is configured.
// Without a key the engine still serves all operations; analysis outcomes
// degrade to the fallback insight.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

// Load reads configuration from a .env file (if present) and the
// environment, and returns a validated Config. All variables are optional:
// REPOFORGE_GITHUB_TOKEN, REPOFORGE_GEMINI_API_KEY,
// REPOFORGE_LISTEN_ADDR (127.0.0.1:8080), REPOFORGE_DB_PATH (repoforge.db),
// REPOFORGE_CACHE_TTL (15m).
func Load() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("REPOFORGE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "repoforge.db"
	if v, ok := os.LookupEnv("REPOFORGE_DB_PATH"); ok {
		dbPath = v
	}

	cacheTTL := 15 * time.Minute
	if v, ok := os.LookupEnv("REPOFORGE_CACHE_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REPOFORGE_CACHE_TTL has invalid duration %q: %w", v, err)
		}
		cacheTTL = parsed
	}

	return &Config{
		GitHubToken:  os.Getenv("REPOFORGE_GITHUB_TOKEN"),
		GeminiAPIKey: os.Getenv("REPOFORGE_GEMINI_API_KEY"),
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		CacheTTL:     cacheTTL,
	}, nil
}
