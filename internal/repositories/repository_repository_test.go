package repositories

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-insights/actionscope/internal/models"
)

// newMigratedDB opens an in-memory database with the real schema so the
// tests catch drift between the migrations and the models
func newMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func TestCreateRepositoryWithoutMetadata(t *testing.T) {
	repo := NewRepositoryRepository(newMigratedDB(t))

	// A fresh registration has no description, clone state or analysis
	// yet; it must still insert (metadata enrichment is best-effort)
	created := models.NewRepository("octocat", "hello-world")
	require.Nil(t, created.Description)
	require.NoError(t, repo.Create(created))

	loaded, err := repo.GetByFullName("octocat", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Nil(t, loaded.Description)
	assert.Equal(t, models.RepositoryStatusNew, loaded.Status)
	assert.Nil(t, loaded.LocalPath)
	assert.Nil(t, loaded.LastAnalyzed)
}

func TestRepositoryLifecycle(t *testing.T) {
	repo := NewRepositoryRepository(newMigratedDB(t))

	created := models.NewRepository("octocat", "hello-world")
	description := "My first repository"
	created.Description = &description
	require.NoError(t, repo.Create(created))

	created.MarkCloned("./clones/octocat/hello-world")
	created.MarkAnalyzed(10, 3)
	require.NoError(t, repo.Update(created))

	loaded, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Description)
	assert.Equal(t, description, *loaded.Description)
	assert.True(t, loaded.IsCloned)
	assert.Equal(t, models.RepositoryStatusAnalyzed, loaded.Status)
	assert.Equal(t, 10, loaded.ChangeCount)
	assert.Equal(t, 3, loaded.WorkflowCount)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(created.ID))
	_, err = repo.GetByID(created.ID)
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	repo := NewRepositoryRepository(newMigratedDB(t))

	require.NoError(t, repo.Create(models.NewRepository("octocat", "hello-world")))

	// The owner/name pair is unique
	err := repo.Create(models.NewRepository("octocat", "hello-world"))
	assert.Error(t, err)
}
