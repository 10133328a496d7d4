package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/pkg/config"
)

// CloneService handles repository cloning operations
type CloneService struct {
	repositoryRepo *repositories.RepositoryRepository
	cloneBasePath  string
	token          string
}

// NewCloneService creates a new clone service
func NewCloneService(repositoryRepo *repositories.RepositoryRepository) *CloneService {
	cloneBasePath := "./clones"
	token := ""
	if config.AppConfig != nil {
		if config.AppConfig.GitHub.CloneDir != "" {
			cloneBasePath = config.AppConfig.GitHub.CloneDir
		}
		token = config.AppConfig.GitHub.Token
	}

	return &CloneService{
		repositoryRepo: repositoryRepo,
		cloneBasePath:  cloneBasePath,
		token:          token,
	}
}

// CloneRepository clones or pulls the repository referenced by a job
func (s *CloneService) CloneRepository(job *models.Job) error {
	repo, err := s.repositoryRepo.GetByID(job.RepositoryID)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	// Create clones directory if it doesn't exist
	if err := os.MkdirAll(s.cloneBasePath, 0755); err != nil {
		return fmt.Errorf("failed to create clones directory: %w", err)
	}

	ownerClonePath := filepath.Join(s.cloneBasePath, repo.Owner)
	if err := os.MkdirAll(ownerClonePath, 0755); err != nil {
		return fmt.Errorf("failed to create owner clone directory: %w", err)
	}

	repoClonePath := filepath.Join(ownerClonePath, repo.Name)

	// Pull when the clone already exists, full clone otherwise
	if s.isRepositoryCloned(repoClonePath) {
		if err := s.pullRepository(repoClonePath); err != nil {
			return err
		}
	} else {
		if err := s.cloneRepository(repoClonePath, repo); err != nil {
			return err
		}
	}

	repo.MarkCloned(repoClonePath)
	if err := s.repositoryRepo.Update(repo); err != nil {
		return fmt.Errorf("failed to update repository record: %w", err)
	}

	return nil
}

// isRepositoryCloned checks if a repository is already cloned
func (s *CloneService) isRepositoryCloned(repoPath string) bool {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	return err == nil && info.IsDir()
}

// cloneRepository performs a full clone of the repository
func (s *CloneService) cloneRepository(repoPath string, repo *models.Repository) error {
	// Remove directory if it exists but is not a git repo
	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("failed to clean repository directory: %w", err)
	}

	cmd := exec.Command("git", "clone", s.authURL(repo.CloneURL), repoPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	return nil
}

// pullRepository performs a git pull on an existing repository
func (s *CloneService) pullRepository(repoPath string) error {
	cmd := exec.Command("git", "pull")
	cmd.Dir = repoPath
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to pull repository: %w", err)
	}

	return nil
}

// authURL injects the configured token into a clone URL when one is set;
// public repositories clone fine without it
func (s *CloneService) authURL(cloneURL string) string {
	if s.token == "" {
		return cloneURL
	}
	return strings.Replace(cloneURL, "https://", "https://"+s.token+"@", 1)
}

// GetClonePath returns the local path where a repository is cloned
func (s *CloneService) GetClonePath(owner, name string) string {
	return filepath.Join(s.cloneBasePath, owner, name)
}
