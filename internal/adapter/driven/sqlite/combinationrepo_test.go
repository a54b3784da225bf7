package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

func makeCombination(id, name string, createdAt time.Time) model.CombinationResult {
	return model.CombinationResult{
		ID:          id,
		Name:        name,
		Description: "Combination of 2 repositories: acme/web, acme/blog",
		Strategy: model.MergeStrategy{
			TargetFramework:  model.FrameworkNextJS,
			ConflictPolicy:   model.ConflictSmartMerge,
			ComponentPolicy:  model.ComponentsSelective,
			DependencyPolicy: model.DependenciesUnified,
		},
		Structure: model.ProjectStructure{
			Folders:     []string{"app", "components", "lib", "public"},
			ConfigFiles: []string{"next.config.js", "package.json"},
			EntryPoints: []string{"app/page.tsx"},
		},
		Dependencies: []string{"next", "react", "react-dom"},
		Features:     []string{"authentication"},
		Scripts:      map[string]string{"dev": "next dev", "build": "next build"},
		Deployment: model.DeploymentConfig{
			Platform:     "vercel",
			BuildCommand: "next build",
			OutputDir:    ".next",
			EnvVars:      []string{"NODE_ENV", "NEXT_PUBLIC_API_URL"},
		},
		Sources:   []string{"acme/web", "acme/blog"},
		CreatedAt: createdAt,
	}
}

func TestCombinationRepo_SaveAndLoadAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCombinationRepo(db)
	ctx := context.Background()

	combo := makeCombination("combo-1-2-1748736000", "web-blog", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, combo))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, combo.ID, got.ID)
	assert.Equal(t, combo.Name, got.Name)
	assert.Equal(t, combo.Strategy, got.Strategy)
	assert.Equal(t, combo.Structure, got.Structure)
	assert.Equal(t, combo.Dependencies, got.Dependencies)
	assert.Equal(t, combo.Scripts, got.Scripts)
	assert.Equal(t, combo.Deployment, got.Deployment)
	assert.Equal(t, combo.Sources, got.Sources)
	assert.True(t, combo.CreatedAt.Equal(got.CreatedAt))
}

func TestCombinationRepo_SaveUpserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCombinationRepo(db)
	ctx := context.Background()

	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	combo := makeCombination("combo-1-1748736000", "first", createdAt)
	require.NoError(t, repo.Save(ctx, combo))

	combo.Name = "renamed"
	require.NoError(t, repo.Save(ctx, combo))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "renamed", loaded[0].Name)
}

func TestCombinationRepo_LoadAllOrderedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCombinationRepo(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, makeCombination("combo-old", "old", base)))
	require.NoError(t, repo.Save(ctx, makeCombination("combo-new", "new", base.Add(2*time.Hour))))
	require.NoError(t, repo.Save(ctx, makeCombination("combo-mid", "mid", base.Add(time.Hour))))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "combo-new", loaded[0].ID)
	assert.Equal(t, "combo-mid", loaded[1].ID)
	assert.Equal(t, "combo-old", loaded[2].ID)
}

func TestCombinationRepo_LoadAllEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCombinationRepo(db)

	loaded, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
