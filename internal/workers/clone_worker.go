package workers

import (
	"context"
	"log"
	"time"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
)

// CloneWorker handles clone jobs
type CloneWorker struct {
	*BaseWorker
	jobRepo      *repositories.JobRepository
	cloneService *services.CloneService
}

// NewCloneWorker creates a new clone worker
func NewCloneWorker(workerID string, jobRepo *repositories.JobRepository, cloneService *services.CloneService) *CloneWorker {
	return &CloneWorker{
		BaseWorker:   NewBaseWorker(workerID, models.JobTypeClone),
		jobRepo:      jobRepo,
		cloneService: cloneService,
	}
}

// Start begins the clone worker process
func (w *CloneWorker) Start(ctx context.Context) error {
	w.Running = true
	log.Printf("Clone worker %s started", w.WorkerID)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Clone worker %s stopping due to context cancellation", w.WorkerID)
			return ctx.Err()
		case <-w.StopChan:
			log.Printf("Clone worker %s stopping", w.WorkerID)
			return nil
		default:
			// Try to claim a pending clone job
			job, err := w.jobRepo.GetNextPendingJob(models.JobTypeClone, w.WorkerID)
			if err != nil {
				log.Printf("Clone worker %s error getting job: %v", w.WorkerID, err)
				time.Sleep(5 * time.Second)
				continue
			}

			if job == nil {
				// No jobs available, sleep and try again
				time.Sleep(10 * time.Second)
				continue
			}

			w.processCloneJob(job)
		}
	}
}

// processCloneJob handles the actual clone job processing
func (w *CloneWorker) processCloneJob(job *models.Job) {
	log.Printf("Clone worker %s processing job %s", w.WorkerID, job.ID)

	if err := w.cloneService.CloneRepository(job); err != nil {
		log.Printf("Clone worker %s job %s failed: %v", w.WorkerID, job.ID, err)
		job.MarkFailed()
		job.SetError(err.Error())
		if updateErr := w.jobRepo.Update(job); updateErr != nil {
			log.Printf("Clone worker %s error updating job %s: %v", w.WorkerID, job.ID, updateErr)
		}
		return
	}

	job.MarkCompleted()
	if err := w.jobRepo.Update(job); err != nil {
		log.Printf("Clone worker %s error completing job %s: %v", w.WorkerID, job.ID, err)
		return
	}

	log.Printf("Clone worker %s completed job %s", w.WorkerID, job.ID)
}
