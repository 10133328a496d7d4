package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-insights/actionscope/internal/models"
)

func TestMatch(t *testing.T) {
	service := NewWorkflowFilterService(".github/workflows/", []string{".yml", ".yaml"})

	testCases := []struct {
		name         string
		path         string
		expectedName string
		expectedOK   bool
	}{
		{
			name:         "Workflow with yml extension",
			path:         ".github/workflows/ci.yml",
			expectedName: "ci",
			expectedOK:   true,
		},
		{
			name:         "Workflow with yaml extension",
			path:         ".github/workflows/release.yaml",
			expectedName: "release",
			expectedOK:   true,
		},
		{
			name:         "Nested workflow path",
			path:         ".github/workflows/nightly/build.yml",
			expectedName: "nightly/build",
			expectedOK:   true,
		},
		{
			name:       "Source file outside the workflow directory",
			path:       "internal/services/ownership_service.go",
			expectedOK: false,
		},
		{
			name:       "YAML outside the workflow directory",
			path:       "configs/app.yml",
			expectedOK: false,
		},
		{
			name:       "Workflow directory file with wrong extension",
			path:       ".github/workflows/README.md",
			expectedOK: false,
		},
		{
			name:       "Prefix without separator",
			path:       ".github/workflowsci.yml",
			expectedOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := service.Match(tc.path)
			assert.Equal(t, tc.expectedOK, ok)
			if tc.expectedOK {
				assert.Equal(t, tc.expectedName, name)
			}
		})
	}
}

func TestMatchNormalizesDirWithoutTrailingSlash(t *testing.T) {
	service := NewWorkflowFilterService(".github/workflows", []string{".yml"})

	name, ok := service.Match(".github/workflows/ci.yml")
	require.True(t, ok)
	assert.Equal(t, "ci", name)
}

func TestFilterAnnotatesWorkflowChanges(t *testing.T) {
	service := NewWorkflowFilterService(".github/workflows/", []string{".yml", ".yaml"})

	workflow := models.NewCommitFileChange(testRepoID, "h1", "alice", ".github/workflows/ci.yml")
	source := models.NewCommitFileChange(testRepoID, "h1", "alice", "main.go")
	other := models.NewCommitFileChange(testRepoID, "h2", "bob", ".github/workflows/deploy.yaml")

	filtered := service.Filter([]*models.CommitFileChange{workflow, source, other})

	require.Len(t, filtered, 2)
	assert.Same(t, workflow, filtered[0])
	assert.Same(t, other, filtered[1])

	require.True(t, workflow.IsWorkflow())
	assert.Equal(t, "ci", *workflow.WorkflowName)
	assert.Equal(t, "deploy", *other.WorkflowName)
	assert.False(t, source.IsWorkflow())
}

func TestFilterEmptyInput(t *testing.T) {
	service := NewWorkflowFilterService(".github/workflows/", []string{".yml"})

	assert.Empty(t, service.Filter(nil))
}
