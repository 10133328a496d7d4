package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ci-insights/actionscope/internal/models"
)

const testRepoID = "repo-1"

func makeChange(author, file string, date time.Time) *models.CommitFileChange {
	change := models.NewCommitFileChange(testRepoID, "hash-"+author, author, file)
	change.SetDate(date)
	return change
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 12, 0, 0, 0, time.UTC)
}

func leaders(timeline []*models.OwnershipEvent) []string {
	result := make([]string, 0, len(timeline))
	for _, event := range timeline {
		result = append(result, event.LeadingAuthor)
	}
	return result
}

func TestComputeOwnershipLeadChangesOnOvertake(t *testing.T) {
	service := NewOwnershipService()

	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "ci.yml", day(2)),
		makeChange("bob", "ci.yml", day(3)),
	}

	result := service.ComputeOwnership(changes)

	require.Equal(t, []string{"ci.yml"}, result.Files)
	timeline := result.Timelines["ci.yml"]
	require.Len(t, timeline, 3)

	// Bob's first commit ties alice on count but is more recent, so the
	// lead passes to bob at the second event already
	assert.Equal(t, []string{"alice", "bob", "bob"}, leaders(timeline))
	assert.Equal(t, "alice", timeline[0].Author)
	assert.Equal(t, "bob", timeline[1].Author)
	assert.Equal(t, 0, result.TotalExclusions())
}

func TestComputeOwnershipFullTieGoesToSmallestName(t *testing.T) {
	service := NewOwnershipService()

	// Same date on both commits: count ties and recency ties, so the
	// lexicographically smaller name keeps the lead
	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "ci.yml", day(1)),
	}

	result := service.ComputeOwnership(changes)

	timeline := result.Timelines["ci.yml"]
	require.Len(t, timeline, 2)
	assert.Equal(t, []string{"alice", "alice"}, leaders(timeline))
}

func TestComputeOwnershipSingleAuthor(t *testing.T) {
	service := NewOwnershipService()

	changes := []*models.CommitFileChange{
		makeChange("carol", "release.yml", day(1)),
		makeChange("carol", "release.yml", day(5)),
		makeChange("carol", "release.yml", day(9)),
	}

	result := service.ComputeOwnership(changes)

	timeline := result.Timelines["release.yml"]
	require.Len(t, timeline, 3)
	assert.Equal(t, []string{"carol", "carol", "carol"}, leaders(timeline))
}

func TestComputeOwnershipExcludesChangesWithoutDate(t *testing.T) {
	service := NewOwnershipService()

	undated := models.NewCommitFileChange(testRepoID, "hash-x", "mallory", "ci.yml")
	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		undated,
		makeChange("alice", "ci.yml", day(2)),
	}

	result := service.ComputeOwnership(changes)

	timeline := result.Timelines["ci.yml"]
	require.Len(t, timeline, 2)
	assert.Equal(t, []string{"alice", "alice"}, leaders(timeline))
	assert.Equal(t, 1, result.Exclusions["ci.yml"])
	assert.Equal(t, 1, result.TotalExclusions())
}

func TestComputeOwnershipFilesAreIndependent(t *testing.T) {
	service := NewOwnershipService()

	// Bob dominates deploy.yml but that must not affect ci.yml
	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "deploy.yml", day(1)),
		makeChange("bob", "deploy.yml", day(2)),
		makeChange("bob", "deploy.yml", day(3)),
		makeChange("alice", "ci.yml", day(4)),
	}

	result := service.ComputeOwnership(changes)

	require.Equal(t, []string{"ci.yml", "deploy.yml"}, result.Files)
	assert.Equal(t, []string{"alice", "alice"}, leaders(result.Timelines["ci.yml"]))
	assert.Equal(t, []string{"bob", "bob", "bob"}, leaders(result.Timelines["deploy.yml"]))
}

func TestComputeOwnershipUsesWorkflowNameWhenSet(t *testing.T) {
	service := NewOwnershipService()

	change := makeChange("alice", ".github/workflows/ci.yml", day(1))
	change.SetWorkflowName("ci")

	result := service.ComputeOwnership([]*models.CommitFileChange{change})

	require.Equal(t, []string{"ci"}, result.Files)
	assert.Equal(t, "ci", result.Timelines["ci"][0].File)
}

func TestComputeOwnershipPrefixDecisionsAreStable(t *testing.T) {
	service := NewOwnershipService()

	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "ci.yml", day(2)),
		makeChange("bob", "ci.yml", day(3)),
		makeChange("alice", "ci.yml", day(4)),
		makeChange("alice", "ci.yml", day(5)),
	}

	full := service.ComputeOwnership(changes)

	// Replaying any prefix of the history must reproduce the same leading
	// authors: later commits cannot rewrite earlier decisions
	for cut := 1; cut < len(changes); cut++ {
		prefix := make([]*models.CommitFileChange, cut)
		copy(prefix, changes[:cut])

		partial := service.ComputeOwnership(prefix)
		assert.Equal(t,
			leaders(full.Timelines["ci.yml"])[:cut],
			leaders(partial.Timelines["ci.yml"]),
			"prefix of length %d diverged", cut)
	}
}

func TestComputeOwnershipIsDeterministic(t *testing.T) {
	service := NewOwnershipService()

	changes := []*models.CommitFileChange{
		makeChange("dave", "ci.yml", day(2)),
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "ci.yml", day(2)),
		makeChange("carol", "ci.yml", day(3)),
		makeChange("bob", "ci.yml", day(3)),
	}

	first := service.ComputeOwnership(changes)
	second := service.ComputeOwnership(changes)

	assert.Equal(t, leaders(first.Timelines["ci.yml"]), leaders(second.Timelines["ci.yml"]))
	assert.Equal(t, first.Files, second.Files)
}

func TestComputeOwnershipSameDateKeepsInputOrder(t *testing.T) {
	service := NewOwnershipService()

	// Three commits at the same instant: the stable sort keeps git log
	// order, so events come out in input order
	changes := []*models.CommitFileChange{
		makeChange("carol", "ci.yml", day(1)),
		makeChange("alice", "ci.yml", day(1)),
		makeChange("bob", "ci.yml", day(1)),
	}

	result := service.ComputeOwnership(changes)

	timeline := result.Timelines["ci.yml"]
	require.Len(t, timeline, 3)
	assert.Equal(t, "carol", timeline[0].Author)
	assert.Equal(t, "alice", timeline[1].Author)
	assert.Equal(t, "bob", timeline[2].Author)
	// All tied on count and date, alice is the smallest name once seen
	assert.Equal(t, []string{"carol", "alice", "alice"}, leaders(timeline))
}

func TestComputeOwnershipLeadRequiresStrictOvertake(t *testing.T) {
	service := NewOwnershipService()

	// After bob pulls level on count, his later date gives him the lead;
	// alice then retakes it only by going ahead on count
	changes := []*models.CommitFileChange{
		makeChange("alice", "ci.yml", day(1)),
		makeChange("alice", "ci.yml", day(2)),
		makeChange("bob", "ci.yml", day(3)),
		makeChange("bob", "ci.yml", day(4)),
		makeChange("alice", "ci.yml", day(5)),
	}

	result := service.ComputeOwnership(changes)

	assert.Equal(t, []string{"alice", "alice", "alice", "bob", "alice"},
		leaders(result.Timelines["ci.yml"]))
}

func TestOwnershipResultFlatten(t *testing.T) {
	service := NewOwnershipService()

	changes := []*models.CommitFileChange{
		makeChange("bob", "deploy.yml", day(2)),
		makeChange("alice", "ci.yml", day(1)),
		makeChange("alice", "ci.yml", day(3)),
	}

	result := service.ComputeOwnership(changes)
	flat := result.Flatten()

	require.Len(t, flat, 3)
	assert.Equal(t, 3, result.TotalEvents())

	// Files in lexicographic order, events chronological within a file
	assert.Equal(t, "ci.yml", flat[0].File)
	assert.Equal(t, "ci.yml", flat[1].File)
	assert.Equal(t, "deploy.yml", flat[2].File)
	assert.True(t, flat[0].Date.Before(flat[1].Date))
}

func TestComputeOwnershipEmptyInput(t *testing.T) {
	service := NewOwnershipService()

	result := service.ComputeOwnership(nil)

	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.TotalEvents())
	assert.Equal(t, 0, result.TotalExclusions())
	assert.Empty(t, result.Flatten())
}
