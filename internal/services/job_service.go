package services

import (
	"fmt"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
)

// JobService handles background job creation and queries
type JobService struct {
	jobRepo *repositories.JobRepository
}

// NewJobService creates a new job service
func NewJobService(jobRepo *repositories.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

// CreateAnalysisJobs queues the full pipeline for a repository: clone,
// then history collection, then ownership computation. Each stage depends
// on the previous one so workers pick them up in order.
func (s *JobService) CreateAnalysisJobs(repositoryID string) ([]*models.Job, error) {
	cloneJob := models.NewJob(repositoryID, models.JobTypeClone)
	if err := s.jobRepo.Create(cloneJob); err != nil {
		return nil, fmt.Errorf("failed to create clone job: %w", err)
	}

	historyJob := models.NewJob(repositoryID, models.JobTypeHistory)
	historyJob.DependsOn = &cloneJob.ID
	if err := s.jobRepo.Create(historyJob); err != nil {
		return nil, fmt.Errorf("failed to create history job: %w", err)
	}

	ownershipJob := models.NewJob(repositoryID, models.JobTypeOwnership)
	ownershipJob.DependsOn = &historyJob.ID
	if err := s.jobRepo.Create(ownershipJob); err != nil {
		return nil, fmt.Errorf("failed to create ownership job: %w", err)
	}

	return []*models.Job{cloneJob, historyJob, ownershipJob}, nil
}

// CreateOwnershipJob queues a standalone ownership recomputation, used
// after a CSV import when no clone is involved
func (s *JobService) CreateOwnershipJob(repositoryID string) (*models.Job, error) {
	job := models.NewJob(repositoryID, models.JobTypeOwnership)
	if err := s.jobRepo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to create ownership job: %w", err)
	}
	return job, nil
}

// GetJobsByRepository retrieves all jobs for a repository
func (s *JobService) GetJobsByRepository(repositoryID string) ([]*models.Job, error) {
	return s.jobRepo.GetByRepositoryID(repositoryID)
}
