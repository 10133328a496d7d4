package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-insights/actionscope/internal/models"
)

func TestRenderContributionsChart(t *testing.T) {
	db := newTestDB(t)

	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 1, 0),
		workflowChange("bob", "h2", "ci", day(2), 1, 0),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewChartService(NewAuthorStatsService(changeRepo, ownershipRepo))

	var buf bytes.Buffer
	require.NoError(t, service.RenderContributionsChart(testRepoID, &buf))

	html := buf.String()
	assert.Contains(t, html, "Workflow Contributions")
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, "bob")
}

func TestRenderOwnershipChart(t *testing.T) {
	db := newTestDB(t)

	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 1, 0),
		workflowChange("bob", "h2", "ci", day(2), 1, 0),
		workflowChange("bob", "h3", "ci", day(3), 1, 0),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewChartService(NewAuthorStatsService(changeRepo, ownershipRepo))

	var buf bytes.Buffer
	require.NoError(t, service.RenderOwnershipChart(testRepoID, "ci", &buf))

	html := buf.String()
	assert.Contains(t, html, "Ownership Timeline: ci")
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, "bob")
}

func TestRenderOwnershipChartEmptyTimeline(t *testing.T) {
	db := newTestDB(t)
	changeRepo, ownershipRepo := seedHistory(t, db, nil)

	service := NewChartService(NewAuthorStatsService(changeRepo, ownershipRepo))

	var buf bytes.Buffer
	require.NoError(t, service.RenderOwnershipChart(testRepoID, "missing", &buf))
	require.NotZero(t, buf.Len())
}
