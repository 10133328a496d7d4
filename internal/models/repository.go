package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RepositoryStatus represents the analysis state of a repository
type RepositoryStatus string

const (
	RepositoryStatusNew       RepositoryStatus = "new"
	RepositoryStatusCloning   RepositoryStatus = "cloning"
	RepositoryStatusCollected RepositoryStatus = "collected"
	RepositoryStatusAnalyzed  RepositoryStatus = "analyzed"
	RepositoryStatusFailed    RepositoryStatus = "failed"
)

// Repository represents a GitHub repository registered for workflow analysis
type Repository struct {
	ID            string           `json:"id"`
	Owner         string           `json:"owner"`
	Name          string           `json:"name"`
	CloneURL      string           `json:"clone_url"`
	Description   *string          `json:"description"`
	Stars         int              `json:"stars"`
	DefaultBranch string           `json:"default_branch"`
	Status        RepositoryStatus `json:"status"`
	IsCloned      bool             `json:"is_cloned"`
	LastCloned    *time.Time       `json:"last_cloned"`
	LocalPath     *string          `json:"local_path"`
	ChangeCount   int              `json:"change_count"`
	WorkflowCount int              `json:"workflow_count"`
	LastAnalyzed  *time.Time       `json:"last_analyzed"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewRepository creates a new Repository with a generated UUID
func NewRepository(owner, name string) *Repository {
	now := time.Now()
	return &Repository{
		ID:        uuid.New().String(),
		Owner:     owner,
		Name:      name,
		CloneURL:  fmt.Sprintf("https://github.com/%s/%s", owner, name),
		Status:    RepositoryStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName returns the owner/name identifier used by GitHub
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// MarkCloned records a successful clone or pull
func (r *Repository) MarkCloned(localPath string) {
	now := time.Now()
	r.IsCloned = true
	r.LastCloned = &now
	r.LocalPath = &localPath
	r.UpdatedAt = now
}

// MarkAnalyzed records a completed ownership analysis
func (r *Repository) MarkAnalyzed(changeCount, workflowCount int) {
	now := time.Now()
	r.Status = RepositoryStatusAnalyzed
	r.ChangeCount = changeCount
	r.WorkflowCount = workflowCount
	r.LastAnalyzed = &now
	r.UpdatedAt = now
}
