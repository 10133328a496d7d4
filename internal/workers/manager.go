package workers

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
)

// WorkerManager manages multiple workers of different types
type WorkerManager struct {
	workers          []Worker
	jobRepo          *repositories.JobRepository
	repositoryRepo   *repositories.RepositoryRepository
	changeRepo       *repositories.ChangeRepository
	ownershipRepo    *repositories.OwnershipRepository
	cloneService     *services.CloneService
	gitLogService    *services.GitLogService
	filterService    *services.WorkflowFilterService
	ownershipService *services.OwnershipService
	wg               sync.WaitGroup
	ctx              context.Context
	cancel           context.CancelFunc
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(
	jobRepo *repositories.JobRepository,
	repositoryRepo *repositories.RepositoryRepository,
	changeRepo *repositories.ChangeRepository,
	ownershipRepo *repositories.OwnershipRepository,
	cloneService *services.CloneService,
	gitLogService *services.GitLogService,
	filterService *services.WorkflowFilterService,
	ownershipService *services.OwnershipService,
) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:          make([]Worker, 0),
		jobRepo:          jobRepo,
		repositoryRepo:   repositoryRepo,
		changeRepo:       changeRepo,
		ownershipRepo:    ownershipRepo,
		cloneService:     cloneService,
		gitLogService:    gitLogService,
		filterService:    filterService,
		ownershipService: ownershipService,
		ctx:              ctx,
		cancel:           cancel,
	}
}

// StartAll starts all workers based on environment configuration
func (wm *WorkerManager) StartAll() error {
	// Get worker counts from environment variables
	cloneWorkers := wm.getWorkerCount("CLONE_WORKERS", 2)
	historyWorkers := wm.getWorkerCount("HISTORY_WORKERS", 2)
	ownershipWorkers := wm.getWorkerCount("OWNERSHIP_WORKERS", 1)

	log.Printf("Starting workers - Clone: %d, History: %d, Ownership: %d",
		cloneWorkers, historyWorkers, ownershipWorkers)

	// Create and start clone workers
	for i := 0; i < cloneWorkers; i++ {
		worker := NewCloneWorker(fmt.Sprintf("clone-%d", i+1), wm.jobRepo, wm.cloneService)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	// Create and start history workers
	for i := 0; i < historyWorkers; i++ {
		worker := NewHistoryWorker(fmt.Sprintf("history-%d", i+1), wm.jobRepo, wm.repositoryRepo, wm.changeRepo, wm.gitLogService)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	// Create and start ownership workers
	for i := 0; i < ownershipWorkers; i++ {
		worker := NewOwnershipWorker(fmt.Sprintf("ownership-%d", i+1), wm.jobRepo, wm.repositoryRepo, wm.changeRepo, wm.ownershipRepo, wm.filterService, wm.ownershipService)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	log.Printf("Started %d total workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	log.Println("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	// Stop each worker
	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			log.Printf("Error stopping worker %s: %v", worker.GetWorkerID(), err)
		}
	}

	// Wait for all workers to finish
	wm.wg.Wait()

	log.Println("All workers stopped")
	return nil
}

// getWorkerCount reads worker count from environment variable with fallback
func (wm *WorkerManager) getWorkerCount(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if count, err := strconv.Atoi(value); err == nil && count > 0 {
			return count
		}
		log.Printf("Invalid value for %s, using default: %d", envVar, defaultValue)
	}
	return defaultValue
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil {
			log.Printf("Worker %s stopped with error: %v", worker.GetWorkerID(), err)
		}
	}()
}
