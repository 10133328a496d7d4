package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/pkg/logger"
)

// ImportService loads commit history from CSV files produced by the
// collector: one row per (commit, file) pair with columns hash, author,
// date, message, file, additions, deletions. Hash, author and file are
// required; date and the line counts may be empty and stay absent on the
// loaded rows rather than being coerced to zero values.
type ImportService struct{}

// NewImportService creates a new import service
func NewImportService() *ImportService {
	return &ImportService{}
}

// ImportFile loads commit history from a CSV file on disk
func (s *ImportService) ImportFile(repositoryID, path string) ([]*models.CommitFileChange, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	return s.LoadCommitHistory(repositoryID, file)
}

// LoadCommitHistory parses CSV commit history into commit file changes.
// Rows missing a required column are rejected and counted, not fatal.
func (s *ImportService) LoadCommitHistory(repositoryID string, r io.Reader) ([]*models.CommitFileChange, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"hash", "author", "file"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing required column %q", required)
		}
	}

	var changes []*models.CommitFileChange
	rejected := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		hash := field(record, columns, "hash")
		author := field(record, columns, "author")
		file := field(record, columns, "file")
		if hash == "" || author == "" || file == "" {
			rejected++
			continue
		}

		change := models.NewCommitFileChange(repositoryID, hash, author, file)
		change.Message = field(record, columns, "message")

		if date := parseCSVDate(field(record, columns, "date")); date != nil {
			change.SetDate(*date)
		}

		additions, additionsOK := parseCSVCount(field(record, columns, "additions"))
		deletions, deletionsOK := parseCSVCount(field(record, columns, "deletions"))
		if additionsOK && deletionsOK {
			change.SetStats(additions, deletions)
		}

		changes = append(changes, change)
	}

	if rejected > 0 {
		logger.WithField("rows", rejected).Warn("Rejected CSV rows missing hash, author or file")
	}

	return changes, nil
}

// field returns the named column of a record, empty when absent
func field(record []string, columns map[string]int, name string) string {
	index, ok := columns[name]
	if !ok || index >= len(record) {
		return ""
	}
	return record[index]
}

// parseCSVDate parses a collector date, nil when empty or unparsable
func parseCSVDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	date, err := time.Parse(gitDateLayout, value)
	if err != nil {
		return nil
	}
	return &date
}

// parseCSVCount parses a line count column; "-" and empty mean absent
func parseCSVCount(value string) (int, bool) {
	if value == "" || value == "-" {
		return 0, false
	}
	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return count, true
}
