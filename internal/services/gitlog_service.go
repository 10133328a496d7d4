package services

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/pkg/logger"
)

const gitDateLayout = "2006-01-02 15:04:05"

var (
	// commit header line: "<40 hex hash> | <author> | <date> | <subject>"
	commitPattern = regexp.MustCompile(`^([0-9a-fA-F]{40}) \| (.*?) \| (.+?) \| (.*)$`)
	// numstat line: "<additions> <deletions> <path>", "-" for binary files
	numstatPattern = regexp.MustCompile(`^(\d+|-)\s+(\d+|-)\s+(.+)$`)
)

// GitLogService replays a cloned repository's full history into per
// (commit, file) change rows using git log with numstat output
type GitLogService struct{}

// NewGitLogService creates a new git log service
func NewGitLogService() *GitLogService {
	return &GitLogService{}
}

// CollectHistory runs git log over the repository's local clone and
// parses the output into commit file changes
func (s *GitLogService) CollectHistory(repo *models.Repository) ([]*models.CommitFileChange, error) {
	if repo.LocalPath == nil {
		return nil, fmt.Errorf("repository %s has no local clone", repo.FullName())
	}

	cmd := exec.Command("git", "-C", *repo.LocalPath,
		"-c", "diff.renameLimit=10000",
		"log", "--all",
		"--pretty=format:%H | %an | %ad | %s",
		"--numstat",
		"--date=format:"+gitDateLayout,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run git log for %s: %w", repo.FullName(), err)
	}

	return s.ParseLog(repo.ID, string(output)), nil
}

// ParseLog parses git log numstat output into commit file changes. The
// walk carries the current commit header forward: every numstat line
// under a header becomes one change row bound to that commit. Lines that
// match neither pattern are counted and logged, not fatal.
func (s *GitLogService) ParseLog(repositoryID, output string) []*models.CommitFileChange {
	var changes []*models.CommitFileChange

	var currentHash, currentAuthor, currentMessage string
	var currentDate *time.Time
	unexpected := 0

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if match := commitPattern.FindStringSubmatch(line); match != nil {
			currentHash = match[1]
			currentAuthor = match[2]
			currentMessage = match[4]
			if currentAuthor == "" {
				// git can produce commits with no author name
				currentAuthor = "Unknown Author"
			}
			currentDate = parseGitDate(match[3])
			continue
		}

		if match := numstatPattern.FindStringSubmatch(line); match != nil && currentHash != "" {
			change := models.NewCommitFileChange(repositoryID, currentHash, currentAuthor, match[3])
			change.Message = currentMessage
			if currentDate != nil {
				change.SetDate(*currentDate)
			}
			if additions, deletions, ok := parseNumstatCounts(match[1], match[2]); ok {
				change.SetStats(additions, deletions)
			}
			changes = append(changes, change)
			continue
		}

		unexpected++
	}

	if unexpected > 0 {
		logger.WithField("lines", unexpected).Warn("Skipped unexpected lines in git log output")
	}

	return changes
}

// parseGitDate parses a git log date, nil when unparsable
func parseGitDate(value string) *time.Time {
	date, err := time.Parse(gitDateLayout, value)
	if err != nil {
		return nil
	}
	return &date
}

// parseNumstatCounts parses the addition/deletion columns; "-" means a
// binary file with no line counts
func parseNumstatCounts(additionsStr, deletionsStr string) (int, int, bool) {
	if additionsStr == "-" || deletionsStr == "-" {
		return 0, 0, false
	}

	additions, err := strconv.Atoi(additionsStr)
	if err != nil {
		return 0, 0, false
	}
	deletions, err := strconv.Atoi(deletionsStr)
	if err != nil {
		return 0, 0, false
	}

	return additions, deletions, true
}
