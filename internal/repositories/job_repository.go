package repositories

import (
	"database/sql"
	"sync"

	"github.com/ci-insights/actionscope/internal/models"
)

// JobRepository handles database operations for jobs
type JobRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job
func (r *JobRepository) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO jobs (id, repository_id, job_type, status, error_message, depends_on, started_at, completed_at, worker_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID,
		job.RepositoryID,
		job.JobType,
		job.Status,
		job.ErrorMessage,
		job.DependsOn,
		job.StartedAt,
		job.CompletedAt,
		job.WorkerID,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	query := `
		SELECT id, repository_id, job_type, status, error_message, depends_on, started_at, completed_at, worker_id, created_at, updated_at
		FROM jobs WHERE id = ?
	`

	return r.scanJob(r.db.QueryRow(query, id))
}

// GetByRepositoryID retrieves all jobs for a repository
func (r *JobRepository) GetByRepositoryID(repositoryID string) ([]*models.Job, error) {
	query := `
		SELECT id, repository_id, job_type, status, error_message, depends_on, started_at, completed_at, worker_id, created_at, updated_at
		FROM jobs
		WHERE repository_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job := &models.Job{}
		err := rows.Scan(
			&job.ID,
			&job.RepositoryID,
			&job.JobType,
			&job.Status,
			&job.ErrorMessage,
			&job.DependsOn,
			&job.StartedAt,
			&job.CompletedAt,
			&job.WorkerID,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// GetNextPendingJob claims the oldest pending job of the given type for a
// worker. Jobs with an incomplete dependency are skipped. Returns nil when
// no job is available. The mutex keeps two workers from claiming the same
// job between the SELECT and the UPDATE.
func (r *JobRepository) GetNextPendingJob(jobType models.JobType, workerID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT j.id, j.repository_id, j.job_type, j.status, j.error_message, j.depends_on, j.started_at, j.completed_at, j.worker_id, j.created_at, j.updated_at
		FROM jobs j
		WHERE j.job_type = ? AND j.status = ?
			AND (j.depends_on IS NULL OR EXISTS (
				SELECT 1 FROM jobs d WHERE d.id = j.depends_on AND d.status = ?
			))
		ORDER BY j.created_at
		LIMIT 1
	`

	job, err := r.scanJob(r.db.QueryRow(query, jobType, models.JobStatusPending, models.JobStatusCompleted))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	job.MarkStarted()
	job.WorkerID = &workerID

	updateQuery := `
		UPDATE jobs SET status = ?, started_at = ?, worker_id = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := r.db.Exec(updateQuery, job.Status, job.StartedAt, job.WorkerID, job.UpdatedAt, job.ID); err != nil {
		return nil, err
	}

	return job, nil
}

// Update updates an existing job
func (r *JobRepository) Update(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		UPDATE jobs SET
			status = ?, error_message = ?, started_at = ?, completed_at = ?, worker_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		job.Status,
		job.ErrorMessage,
		job.StartedAt,
		job.CompletedAt,
		job.WorkerID,
		job.UpdatedAt,
		job.ID,
	)
	return err
}

// scanJob scans a single job row
func (r *JobRepository) scanJob(row *sql.Row) (*models.Job, error) {
	job := &models.Job{}
	err := row.Scan(
		&job.ID,
		&job.RepositoryID,
		&job.JobType,
		&job.Status,
		&job.ErrorMessage,
		&job.DependsOn,
		&job.StartedAt,
		&job.CompletedAt,
		&job.WorkerID,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}
