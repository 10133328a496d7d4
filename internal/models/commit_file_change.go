package models

import (
	"time"

	"github.com/google/uuid"
)

// CommitFileChange represents one (commit, file) pair from a repository's
// history. A commit touching several files produces one row per file.
// Date, Additions and Deletions are nullable: the git numstat output uses
// "-" for binary files and some commits carry no parsable date. Absent
// values are kept absent rather than coerced to zero so that date ordering
// and addition/deletion sums stay honest.
type CommitFileChange struct {
	ID           string     `json:"id"`
	RepositoryID string     `json:"repository_id"`
	Hash         string     `json:"hash"`
	Author       string     `json:"author"`
	Date         *time.Time `json:"date"`
	Message      string     `json:"message"`
	File         string     `json:"file"`
	WorkflowName *string    `json:"workflow_name"`
	Additions    *int       `json:"additions"`
	Deletions    *int       `json:"deletions"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewCommitFileChange creates a new CommitFileChange with a generated UUID
func NewCommitFileChange(repositoryID, hash, author, file string) *CommitFileChange {
	return &CommitFileChange{
		ID:           uuid.New().String(),
		RepositoryID: repositoryID,
		Hash:         hash,
		Author:       author,
		File:         file,
		CreatedAt:    time.Now(),
	}
}

// SetDate sets the commit date
func (c *CommitFileChange) SetDate(date time.Time) {
	c.Date = &date
}

// SetStats sets the line change statistics
func (c *CommitFileChange) SetStats(additions, deletions int) {
	c.Additions = &additions
	c.Deletions = &deletions
}

// SetWorkflowName marks this change as touching a workflow file,
// identified by its short display name
func (c *CommitFileChange) SetWorkflowName(name string) {
	c.WorkflowName = &name
}

// IsWorkflow reports whether this change touches a workflow file
func (c *CommitFileChange) IsWorkflow() bool {
	return c.WorkflowName != nil
}
