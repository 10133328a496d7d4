package repositories

import (
	"database/sql"

	"github.com/ci-insights/actionscope/internal/models"
)

// ChangeRepository handles database operations for commit file changes
type ChangeRepository struct {
	db *sql.DB
}

// NewChangeRepository creates a new ChangeRepository
func NewChangeRepository(db *sql.DB) *ChangeRepository {
	return &ChangeRepository{db: db}
}

// Create creates a new commit file change
func (r *ChangeRepository) Create(change *models.CommitFileChange) error {
	query := `
		INSERT INTO commit_file_changes (
			id, repository_id, hash, author, date, message, file, workflow_name,
			additions, deletions, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		change.ID, change.RepositoryID, change.Hash, change.Author, change.Date,
		change.Message, change.File, change.WorkflowName,
		change.Additions, change.Deletions, change.CreatedAt,
	)

	return err
}

// CreateBatch inserts changes inside a single transaction
func (r *ChangeRepository) CreateBatch(changes []*models.CommitFileChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO commit_file_changes (
			id, repository_id, hash, author, date, message, file, workflow_name,
			additions, deletions, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, change := range changes {
		_, err := stmt.Exec(
			change.ID, change.RepositoryID, change.Hash, change.Author, change.Date,
			change.Message, change.File, change.WorkflowName,
			change.Additions, change.Deletions, change.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetByRepositoryID retrieves all changes for a repository
func (r *ChangeRepository) GetByRepositoryID(repositoryID string) ([]*models.CommitFileChange, error) {
	query := `
		SELECT id, repository_id, hash, author, date, message, file, workflow_name,
			additions, deletions, created_at
		FROM commit_file_changes
		WHERE repository_id = ?
		ORDER BY rowid
	`

	return r.queryChanges(query, repositoryID)
}

// GetWorkflowChanges retrieves the workflow-file subset for a repository
func (r *ChangeRepository) GetWorkflowChanges(repositoryID string) ([]*models.CommitFileChange, error) {
	query := `
		SELECT id, repository_id, hash, author, date, message, file, workflow_name,
			additions, deletions, created_at
		FROM commit_file_changes
		WHERE repository_id = ? AND workflow_name IS NOT NULL
		ORDER BY date, rowid
	`

	return r.queryChanges(query, repositoryID)
}

// ClearWorkflowNames removes every workflow display name for a
// repository so a re-run with a different filter annotates from a clean
// slate instead of keeping stale matches
func (r *ChangeRepository) ClearWorkflowNames(repositoryID string) error {
	query := `UPDATE commit_file_changes SET workflow_name = NULL WHERE repository_id = ?`
	_, err := r.db.Exec(query, repositoryID)
	return err
}

// UpdateWorkflowNames stores the workflow display names the filter
// assigned, inside a single transaction
func (r *ChangeRepository) UpdateWorkflowNames(changes []*models.CommitFileChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`UPDATE commit_file_changes SET workflow_name = ? WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, change := range changes {
		if _, err := stmt.Exec(change.WorkflowName, change.ID); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// CountByRepositoryID counts all changes for a repository
func (r *ChangeRepository) CountByRepositoryID(repositoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM commit_file_changes WHERE repository_id = ?`
	var count int
	err := r.db.QueryRow(query, repositoryID).Scan(&count)
	return count, err
}

// CountWorkflowChanges counts the workflow-file subset for a repository
func (r *ChangeRepository) CountWorkflowChanges(repositoryID string) (int, error) {
	query := `SELECT COUNT(*) FROM commit_file_changes WHERE repository_id = ? AND workflow_name IS NOT NULL`
	var count int
	err := r.db.QueryRow(query, repositoryID).Scan(&count)
	return count, err
}

// DeleteByRepositoryID deletes all changes for a repository
func (r *ChangeRepository) DeleteByRepositoryID(repositoryID string) error {
	query := `DELETE FROM commit_file_changes WHERE repository_id = ?`
	_, err := r.db.Exec(query, repositoryID)
	return err
}

// queryChanges runs a change query and scans the rows
func (r *ChangeRepository) queryChanges(query string, args ...interface{}) ([]*models.CommitFileChange, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []*models.CommitFileChange
	for rows.Next() {
		change := &models.CommitFileChange{}
		err := rows.Scan(
			&change.ID, &change.RepositoryID, &change.Hash, &change.Author, &change.Date,
			&change.Message, &change.File, &change.WorkflowName,
			&change.Additions, &change.Deletions, &change.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	return changes, nil
}
