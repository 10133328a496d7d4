package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnershipEvent is one point on a workflow file's ownership timeline:
// at Date, Author committed to File, and LeadingAuthor was the contributor
// with the most cumulative commits to that file as of that moment.
type OwnershipEvent struct {
	ID            string    `json:"id"`
	RepositoryID  string    `json:"repository_id"`
	File          string    `json:"file"`
	Author        string    `json:"author"`
	LeadingAuthor string    `json:"leading_author"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewOwnershipEvent creates a new OwnershipEvent with a generated UUID
func NewOwnershipEvent(repositoryID, file, author, leadingAuthor string, date time.Time) *OwnershipEvent {
	return &OwnershipEvent{
		ID:            uuid.New().String(),
		RepositoryID:  repositoryID,
		File:          file,
		Author:        author,
		LeadingAuthor: leadingAuthor,
		Date:          date,
		CreatedAt:     time.Now(),
	}
}
