package services

import (
	"sort"
	"time"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/pkg/logger"
)

// OwnershipService computes, for every workflow file, who the leading
// author was at each point a commit touched the file. The leading author
// is the contributor with the most cumulative commits to that file as of
// that date. Ties are broken by the most recent commit date; a full tie
// (equal count, equal latest date) goes to the lexicographically smallest
// author name so that runs are reproducible.
type OwnershipService struct{}

// NewOwnershipService creates a new ownership service
func NewOwnershipService() *OwnershipService {
	return &OwnershipService{}
}

// OwnershipResult holds the engine output: per-file ownership timelines
// plus the count of events that had to be excluded because they carried
// no usable date.
type OwnershipResult struct {
	Files      []string
	Timelines  map[string][]*models.OwnershipEvent
	Exclusions map[string]int
}

// TotalEvents returns the number of ownership events across all files
func (r *OwnershipResult) TotalEvents() int {
	total := 0
	for _, timeline := range r.Timelines {
		total += len(timeline)
	}
	return total
}

// TotalExclusions returns the number of excluded events across all files
func (r *OwnershipResult) TotalExclusions() int {
	total := 0
	for _, count := range r.Exclusions {
		total += count
	}
	return total
}

// Flatten concatenates the per-file timelines, files in lexicographic
// order, each timeline in chronological order
func (r *OwnershipResult) Flatten() []*models.OwnershipEvent {
	events := make([]*models.OwnershipEvent, 0, r.TotalEvents())
	for _, file := range r.Files {
		events = append(events, r.Timelines[file]...)
	}
	return events
}

// authorTally is the per-author running state for one file's pass
type authorTally struct {
	commits  int
	lastDate time.Time
}

// ComputeOwnership derives the ownership timeline for every file present
// in the given changes. Files are processed independently: within a file,
// events are sorted ascending by date (ties keep input order, which
// follows git log order) and replayed once with an incrementally updated
// per-author tally. The event being processed counts toward its own
// leader decision. Changes without a date cannot be placed on the
// timeline; they are excluded and reported per file, never fatal.
func (s *OwnershipService) ComputeOwnership(changes []*models.CommitFileChange) *OwnershipResult {
	result := &OwnershipResult{
		Timelines:  make(map[string][]*models.OwnershipEvent),
		Exclusions: make(map[string]int),
	}

	// Partition by file, keeping input order within each partition
	partitions := make(map[string][]*models.CommitFileChange)
	for _, change := range changes {
		file := fileKey(change)
		if change.Date == nil {
			result.Exclusions[file]++
			continue
		}
		partitions[file] = append(partitions[file], change)
	}

	for file, partition := range partitions {
		result.Files = append(result.Files, file)
		result.Timelines[file] = s.computeFileTimeline(file, partition)
	}
	sort.Strings(result.Files)

	for file, count := range result.Exclusions {
		logger.WithFields(map[string]interface{}{
			"file":     file,
			"excluded": count,
		}).Warn("Excluded changes without a usable date from ownership pass")
	}

	return result
}

// computeFileTimeline replays one file's changes in date order and emits
// one ownership event per change. The tally is carried forward across the
// pass instead of being recomputed from scratch for every event, so the
// pass is linear after the sort and each decision depends only on events
// at or before the current one.
func (s *OwnershipService) computeFileTimeline(file string, partition []*models.CommitFileChange) []*models.OwnershipEvent {
	sort.SliceStable(partition, func(i, j int) bool {
		return partition[i].Date.Before(*partition[j].Date)
	})

	tally := make(map[string]*authorTally)
	leader := ""

	timeline := make([]*models.OwnershipEvent, 0, len(partition))
	for _, change := range partition {
		t, ok := tally[change.Author]
		if !ok {
			t = &authorTally{}
			tally[change.Author] = t
		}
		t.commits++
		t.lastDate = *change.Date

		// Only this author's tally moved, so the lead either stays
		// where it was or passes to this author
		if leader == "" || beats(t, change.Author, tally[leader], leader) {
			leader = change.Author
		}

		timeline = append(timeline, models.NewOwnershipEvent(
			change.RepositoryID, file, change.Author, leader, *change.Date,
		))
	}

	return timeline
}

// beats reports whether author a's tally outranks author b's: more
// commits wins, then the later last-commit date, then the smaller name
func beats(a *authorTally, aName string, b *authorTally, bName string) bool {
	if a.commits != b.commits {
		return a.commits > b.commits
	}
	if !a.lastDate.Equal(b.lastDate) {
		return a.lastDate.After(b.lastDate)
	}
	return aName < bName
}

// fileKey returns the name a change is scoped by: the short workflow
// display name when the filter has set one, the raw path otherwise
func fileKey(change *models.CommitFileChange) string {
	if change.WorkflowName != nil {
		return *change.WorkflowName
	}
	return change.File
}
