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

// HistoryWorker handles history collection jobs: it replays a cloned
// repository's git log into commit file change rows
type HistoryWorker struct {
	*BaseWorker
	jobRepo        *repositories.JobRepository
	repositoryRepo *repositories.RepositoryRepository
	changeRepo     *repositories.ChangeRepository
	gitLogService  *services.GitLogService
}

// NewHistoryWorker creates a new history worker
func NewHistoryWorker(
	workerID string,
	jobRepo *repositories.JobRepository,
	repositoryRepo *repositories.RepositoryRepository,
	changeRepo *repositories.ChangeRepository,
	gitLogService *services.GitLogService,
) *HistoryWorker {
	return &HistoryWorker{
		BaseWorker:     NewBaseWorker(workerID, models.JobTypeHistory),
		jobRepo:        jobRepo,
		repositoryRepo: repositoryRepo,
		changeRepo:     changeRepo,
		gitLogService:  gitLogService,
	}
}

// Start begins the history worker process
func (w *HistoryWorker) Start(ctx context.Context) error {
	w.Running = true
	log.Printf("History worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("History worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			log.Printf("History worker %s stopping", w.WorkerID)
			return nil
		default:
			// Try to claim a pending history job
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeHistory, w.WorkerID)
			if err != nil {
				log.Printf("History worker %s error getting job: %v", w.WorkerID, err)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				// No jobs available, sleep and try again
				time.Sleep(10 * time.Second)
				continue
			}

			w.processHistoryJob(job)
		}
	}
}

// processHistoryJob handles the actual history job processing
func (w *HistoryWorker) processHistoryJob(job *models.Job) {
	log.Printf("History worker %s processing job %s", w.WorkerID, job.ID)

	if err := w.collectHistory(job); err != nil {
		log.Printf("History worker %s job %s failed: %v", w.WorkerID, job.ID, err)
		job.MarkFailed()
		job.SetError(err.Error())
		if updateErr := w.jobRepo.Update(job); updateErr != nil {
			log.Printf("History worker %s error updating job %s: %v", w.WorkerID, job.ID, updateErr)
		}
		return
	}

	job.MarkCompleted()
	if err := w.jobRepo.Update(job); err != nil {
		log.Printf("History worker %s error completing job %s: %v", w.WorkerID, job.ID, err)
		return
	}

	log.Printf("History worker %s completed job %s", w.WorkerID, job.ID)
}

// collectHistory replays the repository's git log and replaces its
// stored change rows
func (w *HistoryWorker) collectHistory(job *models.Job) error {
	repo, err := w.repositoryRepo.GetByID(job.RepositoryID)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	changes, err := w.gitLogService.CollectHistory(repo)
	if err != nil {
		return fmt.Errorf("failed to collect history: %w", err)
	}

	// Replace existing rows so re-runs stay idempotent
	if err := w.changeRepo.DeleteByRepositoryID(repo.ID); err != nil {
		return fmt.Errorf("failed to delete old changes: %w", err)
	}
	if err := w.changeRepo.CreateBatch(changes); err != nil {
		return fmt.Errorf("failed to store changes: %w", err)
	}

	repo.Status = models.RepositoryStatusCollected
	repo.ChangeCount = len(changes)
	repo.UpdatedAt = time.Now()
	if err := w.repositoryRepo.Update(repo); err != nil {
		return fmt.Errorf("failed to update repository: %w", err)
	}

	log.Printf("History worker %s collected %d file changes for %s", w.WorkerID, len(changes), repo.FullName())
	return nil
}
