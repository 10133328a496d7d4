package services

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE commit_file_changes (
			id TEXT PRIMARY KEY,
			repository_id TEXT NOT NULL,
			hash TEXT NOT NULL,
			author TEXT NOT NULL,
			date DATETIME,
			message TEXT NOT NULL DEFAULT '',
			file TEXT NOT NULL,
			workflow_name TEXT,
			additions INTEGER,
			deletions INTEGER,
			created_at DATETIME NOT NULL
		);
		CREATE TABLE ownership_events (
			id TEXT PRIMARY KEY,
			repository_id TEXT NOT NULL,
			file TEXT NOT NULL,
			author TEXT NOT NULL,
			leading_author TEXT NOT NULL,
			date DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return db
}

func workflowChange(author, hash, name string, date time.Time, additions, deletions int) *models.CommitFileChange {
	change := models.NewCommitFileChange(testRepoID, hash, author, ".github/workflows/"+name+".yml")
	change.SetDate(date)
	change.SetStats(additions, deletions)
	change.SetWorkflowName(name)
	return change
}

func seedHistory(t *testing.T, db *sql.DB, changes []*models.CommitFileChange) (*repositories.ChangeRepository, *repositories.OwnershipRepository) {
	t.Helper()

	changeRepo := repositories.NewChangeRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)
	require.NoError(t, changeRepo.CreateBatch(changes))

	result := NewOwnershipService().ComputeOwnership(changes)
	require.NoError(t, ownershipRepo.CreateBatch(result.Flatten()))

	return changeRepo, ownershipRepo
}

func TestGetAuthorStats(t *testing.T) {
	db := newTestDB(t)

	// h2 touches two workflow files in one commit: two changes, one commit
	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 10, 2),
		workflowChange("alice", "h2", "ci", day(2), 5, 0),
		workflowChange("alice", "h2", "deploy", day(2), 3, 1),
		workflowChange("bob", "h3", "deploy", day(3), 7, 7),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewAuthorStatsService(changeRepo, ownershipRepo)
	stats, err := service.GetAuthorStats(testRepoID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	alice := stats[0]
	assert.Equal(t, "alice", alice.Author)
	assert.Equal(t, 2, alice.Commits)
	assert.Equal(t, 3, alice.Changes)
	assert.Equal(t, 18, alice.Additions)
	assert.Equal(t, 3, alice.Deletions)
	// alice owns ci; bob took deploy by tying on count with a later commit
	assert.Equal(t, 1, alice.FilesOwned)

	bob := stats[1]
	assert.Equal(t, "bob", bob.Author)
	assert.Equal(t, 1, bob.Commits)
	assert.Equal(t, 1, bob.FilesOwned)
}

func TestGetFileSummaries(t *testing.T) {
	db := newTestDB(t)

	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 1, 0),
		workflowChange("bob", "h2", "ci", day(2), 1, 0),
		workflowChange("bob", "h3", "ci", day(3), 1, 0),
		workflowChange("carol", "h4", "release", day(5), 1, 0),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewAuthorStatsService(changeRepo, ownershipRepo)
	summaries, err := service.GetFileSummaries(testRepoID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	ci := summaries[0]
	assert.Equal(t, "ci", ci.File)
	assert.Equal(t, 3, ci.Events)
	assert.Equal(t, 2, ci.Authors)
	assert.Equal(t, "bob", ci.Owner)
	// Lead passed from alice to bob once
	assert.Equal(t, 1, ci.OwnerChanges)
	require.NotNil(t, ci.FirstChange)
	require.NotNil(t, ci.LastChange)
	assert.True(t, ci.FirstChange.Before(*ci.LastChange))

	release := summaries[1]
	assert.Equal(t, "release", release.File)
	assert.Equal(t, 1, release.Events)
	assert.Equal(t, "carol", release.Owner)
	assert.Equal(t, 0, release.OwnerChanges)
}

func TestGetFileTimeline(t *testing.T) {
	db := newTestDB(t)

	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 1, 0),
		workflowChange("bob", "h2", "ci", day(2), 1, 0),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewAuthorStatsService(changeRepo, ownershipRepo)
	timeline, err := service.GetFileTimeline(testRepoID, "ci")
	require.NoError(t, err)
	require.Len(t, timeline, 2)

	assert.Equal(t, "alice", timeline[0].Author)
	assert.Equal(t, "bob", timeline[1].Author)
	assert.True(t, timeline[0].Date.Before(timeline[1].Date))

	files, err := service.GetFiles(testRepoID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ci"}, files)
}

func TestGetAuthorStatsEmptyRepository(t *testing.T) {
	db := newTestDB(t)
	changeRepo := repositories.NewChangeRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)

	service := NewAuthorStatsService(changeRepo, ownershipRepo)

	stats, err := service.GetAuthorStats("missing")
	require.NoError(t, err)
	assert.Empty(t, stats)

	summaries, err := service.GetFileSummaries("missing")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
