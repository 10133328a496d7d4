package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportService writes workflow ownership summaries as xlsx workbooks
type ExportService struct {
	authorStatsService *AuthorStatsService
}

// NewExportService creates a new export service
func NewExportService(authorStatsService *AuthorStatsService) *ExportService {
	return &ExportService{authorStatsService: authorStatsService}
}

// ExportRepository writes a workbook with one sheet of per-file
// summaries and one sheet of per-author statistics
func (s *ExportService) ExportRepository(repositoryID string, w io.Writer) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := s.writeFilesSheet(workbook, repositoryID); err != nil {
		return err
	}
	if err := s.writeAuthorsSheet(workbook, repositoryID); err != nil {
		return err
	}

	// Drop the default sheet excelize creates
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := workbook.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// writeFilesSheet fills the per-file summary sheet
func (s *ExportService) writeFilesSheet(workbook *excelize.File, repositoryID string) error {
	summaries, err := s.authorStatsService.GetFileSummaries(repositoryID)
	if err != nil {
		return fmt.Errorf("failed to load file summaries: %w", err)
	}

	sheet := "Files"
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"File", "Owner", "Events", "Authors", "Owner Changes", "First Change", "Last Change"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, summary := range summaries {
		values := []interface{}{
			summary.File,
			summary.Owner,
			summary.Events,
			summary.Authors,
			summary.OwnerChanges,
			formatDate(summary.FirstChange),
			formatDate(summary.LastChange),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeAuthorsSheet fills the per-author statistics sheet
func (s *ExportService) writeAuthorsSheet(workbook *excelize.File, repositoryID string) error {
	stats, err := s.authorStatsService.GetAuthorStats(repositoryID)
	if err != nil {
		return fmt.Errorf("failed to load author stats: %w", err)
	}

	sheet := "Authors"
	if _, err := workbook.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"Author", "Commits", "Changes", "Additions", "Deletions", "Files Owned"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for row, stat := range stats {
		values := []interface{}{
			stat.Author,
			stat.Commits,
			stat.Changes,
			stat.Additions,
			stat.Deletions,
			stat.FilesOwned,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// formatDate formats a nullable date for a spreadsheet cell
func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format("2006-01-02")
}
