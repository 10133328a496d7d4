package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
)

// OwnershipWorker handles ownership jobs: it filters a repository's
// change history down to workflow files and computes the ownership
// timeline for each of them
type OwnershipWorker struct {
	*BaseWorker
	jobRepo          *repositories.JobRepository
	repositoryRepo   *repositories.RepositoryRepository
	changeRepo       *repositories.ChangeRepository
	ownershipRepo    *repositories.OwnershipRepository
	filterService    *services.WorkflowFilterService
	ownershipService *services.OwnershipService
}

// NewOwnershipWorker creates a new ownership worker
func NewOwnershipWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	repositoryRepo *repositories.RepositoryRepository,
	changeRepo *repositories.ChangeRepository,
	ownershipRepo *repositories.OwnershipRepository,
	filterService *services.WorkflowFilterService,
	ownershipService *services.OwnershipService,
) *OwnershipWorker {
	return &OwnershipWorker{
		BaseWorker:       NewBaseWorker(workerID, models.JobTypeOwnership),
		jobRepo:          jobRepo,
		repositoryRepo:   repositoryRepo,
		changeRepo:       changeRepo,
		ownershipRepo:    ownershipRepo,
		filterService:    filterService,
		ownershipService: ownershipService,
	}
}

// Start begins the ownership worker process
func (w *OwnershipWorker) Start(ctx context.Context) error {
	w.Running = true
	log.Printf("Ownership worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Ownership worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			log.Printf("Ownership worker %s stopping", w.WorkerID)
			return nil
		default:
			// Try to claim a pending ownership job
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeOwnership, w.WorkerID)
			if err != nil {
				log.Printf("Ownership worker %s error getting job: %v", w.WorkerID, err)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				// No jobs available, sleep and try again
				time.Sleep(10 * time.Second)
				continue
			}

			w.processOwnershipJob(job)
		}
	}
}

// processOwnershipJob handles the actual ownership job processing
func (w *OwnershipWorker) processOwnershipJob(job *models.Job) {
	log.Printf("Ownership worker %s processing job %s", w.WorkerID, job.ID)

	if err := w.computeOwnership(job); err != nil {
		log.Printf("Ownership worker %s job %s failed: %v", w.WorkerID, job.ID, err)
		job.MarkFailed()
		job.SetError(err.Error())
		if updateErr := w.jobRepo.Update(job); updateErr != nil {
			log.Printf("Ownership worker %s error updating job %s: %v", w.WorkerID, job.ID, updateErr)
		}
		return
	}

	job.MarkCompleted()
	if err := w.jobRepo.Update(job); err != nil {
		log.Printf("Ownership worker %s error completing job %s: %v", w.WorkerID, job.ID, err)
		return
	}

	log.Printf("Ownership worker %s completed job %s", w.WorkerID, job.ID)
}

// computeOwnership runs the filter and the ownership engine over a
// repository's stored history and replaces its ownership events
func (w *OwnershipWorker) computeOwnership(job *models.Job) error {
	repo, err := w.repositoryRepo.GetByID(job.RepositoryID)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	changes, err := w.changeRepo.GetByRepositoryID(repo.ID)
	if err != nil {
		return fmt.Errorf("failed to load changes: %w", err)
	}

	// Drop names assigned by earlier runs so a changed filter cannot
	// leave stale workflow rows behind
	if err := w.changeRepo.ClearWorkflowNames(repo.ID); err != nil {
		return fmt.Errorf("failed to clear workflow names: %w", err)
	}

	filtered := w.filterService.Filter(changes)
	if err := w.changeRepo.UpdateWorkflowNames(filtered); err != nil {
		return fmt.Errorf("failed to store workflow names: %w", err)
	}

	result := w.ownershipService.ComputeOwnership(filtered)

	// Replace existing events so re-runs stay idempotent
	if err := w.ownershipRepo.DeleteByRepositoryID(repo.ID); err != nil {
		return fmt.Errorf("failed to delete old ownership events: %w", err)
	}
	if err := w.ownershipRepo.CreateBatch(result.Flatten()); err != nil {
		return fmt.Errorf("failed to store ownership events: %w", err)
	}

	repo.MarkAnalyzed(len(changes), len(filtered))
	if err := w.repositoryRepo.Update(repo); err != nil {
		return fmt.Errorf("failed to update repository: %w", err)
	}

	log.Printf("Ownership worker %s computed %d ownership events across %d workflow files for %s (%d changes excluded for missing dates)",
		w.WorkerID, result.TotalEvents(), len(result.Files), repo.FullName(), result.TotalExclusions())
	return nil
}
