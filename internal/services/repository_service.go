package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/pkg/logger"
)

// RepositoryService handles registration and lifecycle of analyzed
// repositories
type RepositoryService struct {
	repositoryRepo *repositories.RepositoryRepository
	changeRepo     *repositories.ChangeRepository
	ownershipRepo  *repositories.OwnershipRepository
	githubService  *GitHubService
}

// NewRepositoryService creates a new repository service
func NewRepositoryService(
	repositoryRepo *repositories.RepositoryRepository,
	changeRepo *repositories.ChangeRepository,
	ownershipRepo *repositories.OwnershipRepository,
	githubService *GitHubService,
) *RepositoryService {
	return &RepositoryService{
		repositoryRepo: repositoryRepo,
		changeRepo:     changeRepo,
		ownershipRepo:  ownershipRepo,
		githubService:  githubService,
	}
}

// Register adds a repository for analysis. Metadata is fetched from the
// GitHub API on a best-effort basis; registration succeeds without it.
func (s *RepositoryService) Register(ctx context.Context, owner, name string) (*models.Repository, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("owner and name are required")
	}

	existing, err := s.repositoryRepo.GetByFullName(owner, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing repository: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("repository %s/%s is already registered", owner, name)
	}

	repo := models.NewRepository(owner, name)

	if err := s.githubService.EnrichRepository(ctx, repo); err != nil {
		logger.WithError(err).WithField("repository", repo.FullName()).Warn("Could not fetch repository metadata")
	}

	if err := s.repositoryRepo.Create(repo); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	return repo, nil
}

// Get retrieves a repository by ID
func (s *RepositoryService) Get(id string) (*models.Repository, error) {
	return s.repositoryRepo.GetByID(id)
}

// List retrieves all registered repositories
func (s *RepositoryService) List() ([]*models.Repository, error) {
	return s.repositoryRepo.GetAll()
}

// Delete removes a repository together with its change history and
// ownership events
func (s *RepositoryService) Delete(id string) error {
	if err := s.ownershipRepo.DeleteByRepositoryID(id); err != nil {
		return fmt.Errorf("failed to delete ownership events: %w", err)
	}
	if err := s.changeRepo.DeleteByRepositoryID(id); err != nil {
		return fmt.Errorf("failed to delete changes: %w", err)
	}
	if err := s.repositoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}
	return nil
}
