package repositories

import (
	"database/sql"

	"github.com/ci-insights/actionscope/internal/models"
)

// RepositoryRepository handles database operations for analyzed repositories
type RepositoryRepository struct {
	db *sql.DB
}

// NewRepositoryRepository creates a new RepositoryRepository
func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// Create creates a new repository record
func (r *RepositoryRepository) Create(repo *models.Repository) error {
	query := `
		INSERT INTO repositories (
			id, owner, name, clone_url, description, stars, default_branch, status,
			is_cloned, last_cloned, local_path, change_count, workflow_count,
			last_analyzed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		repo.ID, repo.Owner, repo.Name, repo.CloneURL, repo.Description, repo.Stars,
		repo.DefaultBranch, repo.Status, repo.IsCloned, repo.LastCloned, repo.LocalPath,
		repo.ChangeCount, repo.WorkflowCount, repo.LastAnalyzed, repo.CreatedAt, repo.UpdatedAt,
	)

	return err
}

// GetByID retrieves a repository by ID
func (r *RepositoryRepository) GetByID(id string) (*models.Repository, error) {
	query := `
		SELECT id, owner, name, clone_url, description, stars, default_branch, status,
			is_cloned, last_cloned, local_path, change_count, workflow_count,
			last_analyzed, created_at, updated_at
		FROM repositories WHERE id = ?
	`

	repo := &models.Repository{}
	err := r.db.QueryRow(query, id).Scan(
		&repo.ID, &repo.Owner, &repo.Name, &repo.CloneURL, &repo.Description, &repo.Stars,
		&repo.DefaultBranch, &repo.Status, &repo.IsCloned, &repo.LastCloned, &repo.LocalPath,
		&repo.ChangeCount, &repo.WorkflowCount, &repo.LastAnalyzed, &repo.CreatedAt, &repo.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return repo, nil
}

// GetByFullName retrieves a repository by owner and name
func (r *RepositoryRepository) GetByFullName(owner, name string) (*models.Repository, error) {
	query := `
		SELECT id, owner, name, clone_url, description, stars, default_branch, status,
			is_cloned, last_cloned, local_path, change_count, workflow_count,
			last_analyzed, created_at, updated_at
		FROM repositories WHERE owner = ? AND name = ?
	`

	repo := &models.Repository{}
	err := r.db.QueryRow(query, owner, name).Scan(
		&repo.ID, &repo.Owner, &repo.Name, &repo.CloneURL, &repo.Description, &repo.Stars,
		&repo.DefaultBranch, &repo.Status, &repo.IsCloned, &repo.LastCloned, &repo.LocalPath,
		&repo.ChangeCount, &repo.WorkflowCount, &repo.LastAnalyzed, &repo.CreatedAt, &repo.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return repo, nil
}

// GetAll retrieves all repositories ordered by registration time
func (r *RepositoryRepository) GetAll() ([]*models.Repository, error) {
	query := `
		SELECT id, owner, name, clone_url, description, stars, default_branch, status,
			is_cloned, last_cloned, local_path, change_count, workflow_count,
			last_analyzed, created_at, updated_at
		FROM repositories
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo := &models.Repository{}
		err := rows.Scan(
			&repo.ID, &repo.Owner, &repo.Name, &repo.CloneURL, &repo.Description, &repo.Stars,
			&repo.DefaultBranch, &repo.Status, &repo.IsCloned, &repo.LastCloned, &repo.LocalPath,
			&repo.ChangeCount, &repo.WorkflowCount, &repo.LastAnalyzed, &repo.CreatedAt, &repo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}

	return repos, nil
}

// Update updates an existing repository record
func (r *RepositoryRepository) Update(repo *models.Repository) error {
	query := `
		UPDATE repositories SET
			owner = ?, name = ?, clone_url = ?, description = ?, stars = ?,
			default_branch = ?, status = ?, is_cloned = ?, last_cloned = ?, local_path = ?,
			change_count = ?, workflow_count = ?, last_analyzed = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		repo.Owner, repo.Name, repo.CloneURL, repo.Description, repo.Stars,
		repo.DefaultBranch, repo.Status, repo.IsCloned, repo.LastCloned, repo.LocalPath,
		repo.ChangeCount, repo.WorkflowCount, repo.LastAnalyzed, repo.UpdatedAt,
		repo.ID,
	)

	return err
}

// Delete deletes a repository by ID
func (r *RepositoryRepository) Delete(id string) error {
	query := `DELETE FROM repositories WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}
