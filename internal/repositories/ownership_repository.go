package repositories

import (
	"database/sql"

	"github.com/ci-insights/actionscope/internal/models"
)

// OwnershipRepository handles database operations for ownership events
type OwnershipRepository struct {
	db *sql.DB
}

// NewOwnershipRepository creates a new OwnershipRepository
func NewOwnershipRepository(db *sql.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// CreateBatch inserts ownership events inside a single transaction
func (r *OwnershipRepository) CreateBatch(events []*models.OwnershipEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ownership_events (
			id, repository_id, file, author, leading_author, date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, event := range events {
		_, err := stmt.Exec(
			event.ID, event.RepositoryID, event.File, event.Author,
			event.LeadingAuthor, event.Date, event.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetByRepositoryID retrieves all ownership events for a repository,
// grouped per file in chronological order
func (r *OwnershipRepository) GetByRepositoryID(repositoryID string) ([]*models.OwnershipEvent, error) {
	query := `
		SELECT id, repository_id, file, author, leading_author, date, created_at
		FROM ownership_events
		WHERE repository_id = ?
		ORDER BY file, date, created_at
	`

	return r.queryEvents(query, repositoryID)
}

// GetByFile retrieves the ownership timeline for a single file
func (r *OwnershipRepository) GetByFile(repositoryID, file string) ([]*models.OwnershipEvent, error) {
	query := `
		SELECT id, repository_id, file, author, leading_author, date, created_at
		FROM ownership_events
		WHERE repository_id = ? AND file = ?
		ORDER BY date, created_at
	`

	return r.queryEvents(query, repositoryID, file)
}

// GetFiles retrieves the distinct file names that have ownership events
func (r *OwnershipRepository) GetFiles(repositoryID string) ([]string, error) {
	query := `
		SELECT DISTINCT file FROM ownership_events
		WHERE repository_id = ?
		ORDER BY file
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

// DeleteByRepositoryID deletes all ownership events for a repository
func (r *OwnershipRepository) DeleteByRepositoryID(repositoryID string) error {
	query := `DELETE FROM ownership_events WHERE repository_id = ?`
	_, err := r.db.Exec(query, repositoryID)
	return err
}

// queryEvents runs an event query and scans the rows
func (r *OwnershipRepository) queryEvents(query string, args ...interface{}) ([]*models.OwnershipEvent, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.OwnershipEvent
	for rows.Next() {
		event := &models.OwnershipEvent{}
		err := rows.Scan(
			&event.ID, &event.RepositoryID, &event.File, &event.Author,
			&event.LeadingAuthor, &event.Date, &event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
