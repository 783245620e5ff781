package implementation

import (
	"context"
	"os"
	"testing"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/model"
	"ai-resume-be/internal/repository/specification"
	"ai-resume-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_DSN not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Exec("TRUNCATE experiences").Error)
	return db
}

func unitVector(axis int) []float32 {
	v := make([]float32, model.EmbeddingDimensions)
	v[axis] = 1
	return v
}

func experience(source string, axis int) *entity.Experience {
	return &entity.Experience{
		SourceId:    source,
		Title:       "Title " + source,
		Content:     "Content " + source,
		Skills:      []string{"Go", "Postgres"},
		Metadata:    map[string]interface{}{"type": "project"},
		ContentHash: "hash-" + source,
		Embedding:   unitVector(axis),
	}
}

func TestExperienceRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewExperienceRepository(db, model.EmbeddingDimensions)
	ctx := context.Background()

	a := experience("jobs/a.md", 0)
	b := experience("projects/b.md", 1)
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.Upsert(ctx, b))
	assert.NotEqual(t, a.Id, b.Id)

	t.Run("search ranks the identical vector first", func(t *testing.T) {
		results, err := repo.Search(ctx, unitVector(1), 5)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "projects/b.md", results[0].Experience.SourceId)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
		assert.Less(t, results[1].Similarity, results[0].Similarity)
		assert.Equal(t, []string{"Go", "Postgres"}, results[0].Experience.Skills)
	})

	t.Run("upsert replaces in place", func(t *testing.T) {
		changed := experience("jobs/a.md", 2)
		changed.ContentHash = "hash-new"
		require.NoError(t, repo.Upsert(ctx, changed))
		assert.Equal(t, a.Id, changed.Id)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		found, err := repo.FindBySourceId(ctx, "jobs/a.md")
		require.NoError(t, err)
		assert.Equal(t, "hash-new", found.ContentHash)
		assert.Equal(t, float32(1), found.Embedding[2])
	})

	t.Run("filter by type", func(t *testing.T) {
		projects, err := repo.FindAll(ctx, specification.ByType{Type: "project"})
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	t.Run("find by id and order", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByID{ID: b.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "projects/b.md", found.SourceId)

		ordered, err := repo.FindAll(ctx, specification.OrderBy{Field: "source_id", Desc: true})
		require.NoError(t, err)
		require.Len(t, ordered, 2)
		assert.Equal(t, "projects/b.md", ordered[0].SourceId)
	})

	t.Run("delete missing", func(t *testing.T) {
		deleted, err := repo.DeleteMissing(ctx, []string{"projects/b.md"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		gone, err := repo.FindBySourceId(ctx, "jobs/a.md")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}
