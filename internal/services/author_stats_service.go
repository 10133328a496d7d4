package services

import (
	"sort"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
)

// AuthorStatsService aggregates workflow change history and ownership
// events into the per-author and per-file views the dashboard shows
type AuthorStatsService struct {
	changeRepo    *repositories.ChangeRepository
	ownershipRepo *repositories.OwnershipRepository
}

// NewAuthorStatsService creates a new author stats service
func NewAuthorStatsService(
	changeRepo *repositories.ChangeRepository,
	ownershipRepo *repositories.OwnershipRepository,
) *AuthorStatsService {
	return &AuthorStatsService{
		changeRepo:    changeRepo,
		ownershipRepo: ownershipRepo,
	}
}

// GetAuthorStats aggregates each contributor's activity on a
// repository's workflow files, sorted by commit count descending
func (s *AuthorStatsService) GetAuthorStats(repositoryID string) ([]*models.AuthorStat, error) {
	changes, err := s.changeRepo.GetWorkflowChanges(repositoryID)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*models.AuthorStat)
	commitSeen := make(map[string]map[string]bool)

	for _, change := range changes {
		stat, ok := stats[change.Author]
		if !ok {
			stat = &models.AuthorStat{Author: change.Author}
			stats[change.Author] = stat
			commitSeen[change.Author] = make(map[string]bool)
		}

		stat.Changes++
		if !commitSeen[change.Author][change.Hash] {
			commitSeen[change.Author][change.Hash] = true
			stat.Commits++
		}
		if change.Additions != nil {
			stat.Additions += *change.Additions
		}
		if change.Deletions != nil {
			stat.Deletions += *change.Deletions
		}
	}

	// Current owner per file comes from the last ownership event
	owners, err := s.currentOwners(repositoryID)
	if err != nil {
		return nil, err
	}
	for _, owner := range owners {
		if stat, ok := stats[owner]; ok {
			stat.FilesOwned++
		}
	}

	results := make([]*models.AuthorStat, 0, len(stats))
	for _, stat := range stats {
		results = append(results, stat)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Commits != results[j].Commits {
			return results[i].Commits > results[j].Commits
		}
		return results[i].Author < results[j].Author
	})

	return results, nil
}

// GetFileSummaries aggregates each workflow file's ownership timeline
// into one summary row, sorted by event count descending
func (s *AuthorStatsService) GetFileSummaries(repositoryID string) ([]*models.FileSummary, error) {
	events, err := s.ownershipRepo.GetByRepositoryID(repositoryID)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]*models.FileSummary)
	authorsPerFile := make(map[string]map[string]bool)
	order := []string{}

	for _, event := range events {
		summary, ok := summaries[event.File]
		if !ok {
			summary = &models.FileSummary{File: event.File}
			summaries[event.File] = summary
			authorsPerFile[event.File] = make(map[string]bool)
			order = append(order, event.File)
		}

		summary.Events++
		authorsPerFile[event.File][event.Author] = true

		// Events arrive per file in chronological order
		if summary.FirstChange == nil {
			first := event.Date
			summary.FirstChange = &first
		}
		last := event.Date
		summary.LastChange = &last

		if summary.Owner != "" && summary.Owner != event.LeadingAuthor {
			summary.OwnerChanges++
		}
		summary.Owner = event.LeadingAuthor
	}

	results := make([]*models.FileSummary, 0, len(summaries))
	for _, file := range order {
		summary := summaries[file]
		summary.Authors = len(authorsPerFile[file])
		results = append(results, summary)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Events != results[j].Events {
			return results[i].Events > results[j].Events
		}
		return results[i].File < results[j].File
	})

	return results, nil
}

// GetFileTimeline retrieves the ownership timeline for one file
func (s *AuthorStatsService) GetFileTimeline(repositoryID, file string) ([]*models.OwnershipEvent, error) {
	return s.ownershipRepo.GetByFile(repositoryID, file)
}

// GetFiles retrieves the workflow files that have ownership events
func (s *AuthorStatsService) GetFiles(repositoryID string) ([]string, error) {
	return s.ownershipRepo.GetFiles(repositoryID)
}

// currentOwners returns the current owner of every workflow file
func (s *AuthorStatsService) currentOwners(repositoryID string) (map[string]string, error) {
	events, err := s.ownershipRepo.GetByRepositoryID(repositoryID)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]string)
	for _, event := range events {
		// Last event per file wins; events are in chronological order
		owners[event.File] = event.LeadingAuthor
	}

	return owners, nil
}
