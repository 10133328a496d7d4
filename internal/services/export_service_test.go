package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ci-insights/actionscope/internal/models"
)

func TestExportRepository(t *testing.T) {
	db := newTestDB(t)

	changes := []*models.CommitFileChange{
		workflowChange("alice", "h1", "ci", day(1), 4, 1),
		workflowChange("bob", "h2", "ci", day(2), 2, 2),
	}
	changeRepo, ownershipRepo := seedHistory(t, db, changes)

	service := NewExportService(NewAuthorStatsService(changeRepo, ownershipRepo))

	var buf bytes.Buffer
	require.NoError(t, service.ExportRepository(testRepoID, &buf))
	require.NotZero(t, buf.Len())

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer workbook.Close()

	assert.ElementsMatch(t, []string{"Files", "Authors"}, workbook.GetSheetList())

	fileCell, err := workbook.GetCellValue("Files", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ci", fileCell)

	authorCell, err := workbook.GetCellValue("Authors", "A2")
	require.NoError(t, err)
	assert.Equal(t, "alice", authorCell)
}

func TestExportRepositoryEmpty(t *testing.T) {
	db := newTestDB(t)
	changeRepo, ownershipRepo := seedHistory(t, db, nil)

	service := NewExportService(NewAuthorStatsService(changeRepo, ownershipRepo))

	var buf bytes.Buffer
	require.NoError(t, service.ExportRepository(testRepoID, &buf))
	require.NotZero(t, buf.Len())
}
