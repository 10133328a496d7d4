package services

import (
	"strings"

	"github.com/ci-insights/actionscope/internal/models"
)

// WorkflowFilterService selects the commit file changes that touch
// workflow definition files and rewrites their names to a short display
// form. A change survives when its path lies under the configured
// workflow directory and carries one of the recognized extensions; the
// prefix and extension are stripped from the surviving name.
type WorkflowFilterService struct {
	dir        string
	extensions []string
}

// NewWorkflowFilterService creates a new workflow filter service
func NewWorkflowFilterService(dir string, extensions []string) *WorkflowFilterService {
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return &WorkflowFilterService{
		dir:        dir,
		extensions: extensions,
	}
}

// Filter returns the changes whose file is a workflow definition, with
// WorkflowName set to the short display name. Input changes are annotated
// in place; the returned slice shares them.
func (s *WorkflowFilterService) Filter(changes []*models.CommitFileChange) []*models.CommitFileChange {
	var filtered []*models.CommitFileChange
	for _, change := range changes {
		name, ok := s.Match(change.File)
		if !ok {
			continue
		}
		change.SetWorkflowName(name)
		filtered = append(filtered, change)
	}
	return filtered
}

// Match reports whether a path names a workflow file and returns its
// short display name (directory prefix and extension stripped)
func (s *WorkflowFilterService) Match(path string) (string, bool) {
	if !strings.HasPrefix(path, s.dir) {
		return "", false
	}

	name := strings.TrimPrefix(path, s.dir)
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}

	return "", false
}
