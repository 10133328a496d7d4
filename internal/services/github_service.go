package services

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/pkg/config"
)

// GitHubService fetches repository metadata from the GitHub API
type GitHubService struct {
	client *github.Client
}

// NewGitHubService creates a new GitHub service. An API token is used
// when configured; unauthenticated requests work for public repositories
// within GitHub's rate limits.
func NewGitHubService() *GitHubService {
	token := ""
	if config.AppConfig != nil {
		token = config.AppConfig.GitHub.Token
	}

	var client *github.Client
	if token != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), tokenSource))
	} else {
		client = github.NewClient(nil)
	}

	return &GitHubService{client: client}
}

// EnrichRepository fills a repository record with metadata from the
// GitHub API: description, star count, default branch and clone URL
func (s *GitHubService) EnrichRepository(ctx context.Context, repo *models.Repository) error {
	ghRepo, _, err := s.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("failed to fetch repository %s: %w", repo.FullName(), err)
	}

	if ghRepo.Description != nil {
		repo.Description = ghRepo.Description
	}
	if ghRepo.StargazersCount != nil {
		repo.Stars = *ghRepo.StargazersCount
	}
	if ghRepo.DefaultBranch != nil {
		repo.DefaultBranch = *ghRepo.DefaultBranch
	}
	if ghRepo.CloneURL != nil {
		repo.CloneURL = *ghRepo.CloneURL
	}

	return nil
}
