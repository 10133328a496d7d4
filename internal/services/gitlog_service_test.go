package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGitLog = `aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa | Alice Smith | 2024-01-02 09:15:00 | Add CI workflow
12	0	.github/workflows/ci.yml
3	1	README.md

bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb | Bob Jones | 2024-01-05 17:40:12 | Tighten release pipeline
8	4	.github/workflows/release.yml
-	-	docs/diagram.png

cccccccccccccccccccccccccccccccccccccccc |  | not-a-date | Mystery commit
1	1	.github/workflows/ci.yml
`

func TestParseLog(t *testing.T) {
	service := NewGitLogService()

	changes := service.ParseLog(testRepoID, sampleGitLog)
	require.Len(t, changes, 5)

	first := changes[0]
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", first.Hash)
	assert.Equal(t, "Alice Smith", first.Author)
	assert.Equal(t, "Add CI workflow", first.Message)
	assert.Equal(t, ".github/workflows/ci.yml", first.File)
	require.NotNil(t, first.Date)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), *first.Date)
	require.NotNil(t, first.Additions)
	assert.Equal(t, 12, *first.Additions)
	require.NotNil(t, first.Deletions)
	assert.Equal(t, 0, *first.Deletions)

	// Second file of the same commit shares the header
	second := changes[1]
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, "README.md", second.File)

	// Binary file: "-" columns stay absent
	binary := changes[3]
	assert.Equal(t, "docs/diagram.png", binary.File)
	assert.Nil(t, binary.Additions)
	assert.Nil(t, binary.Deletions)

	// Empty author name falls back, unparsable date stays absent
	last := changes[4]
	assert.Equal(t, "Unknown Author", last.Author)
	assert.Nil(t, last.Date)
	assert.Equal(t, testRepoID, last.RepositoryID)
}

func TestParseLogSkipsLinesBeforeFirstHeader(t *testing.T) {
	service := NewGitLogService()

	// A numstat line with no preceding commit header has nothing to bind to
	changes := service.ParseLog(testRepoID, "3\t1\torphan.txt\n")
	assert.Empty(t, changes)
}

func TestParseLogEmptyOutput(t *testing.T) {
	service := NewGitLogService()

	assert.Empty(t, service.ParseLog(testRepoID, ""))
	assert.Empty(t, service.ParseLog(testRepoID, "\n\n"))
}

func TestParseLogAuthorWithPipes(t *testing.T) {
	service := NewGitLogService()

	line := strings.Repeat("d", 40) + " | Eve | Mallory | 2024-02-01 10:00:00 | Weird author\n" +
		"1\t1\tci.yml\n"

	changes := service.ParseLog(testRepoID, line)
	require.Len(t, changes, 1)

	// The non-greedy author group stops at the first separator; the date
	// field then picks up the rest of the name and fails to parse
	assert.Equal(t, "Eve", changes[0].Author)
	assert.Nil(t, changes[0].Date)
}
