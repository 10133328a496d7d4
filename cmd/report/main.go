// Command report prints workflow ownership tables for a repository
// analyzed by the actionscope server, straight from its database.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ci-insights/actionscope/internal/models"
	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
)

func main() {
	dbPath := flag.String("db", "./actionscope.db", "path to the actionscope database")
	repoName := flag.String("repo", "", "repository as owner/name")
	file := flag.String("file", "", "print the ownership timeline of one workflow file")
	flag.Parse()

	if *repoName == "" {
		flag.Usage()
		os.Exit(2)
	}

	owner, name, ok := splitFullName(*repoName)
	if !ok {
		log.Fatalf("Invalid repository %q, expected owner/name", *repoName)
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repositoryRepo := repositories.NewRepositoryRepository(db)
	changeRepo := repositories.NewChangeRepository(db)
	ownershipRepo := repositories.NewOwnershipRepository(db)
	authorStatsService := services.NewAuthorStatsService(changeRepo, ownershipRepo)

	repo, err := repositoryRepo.GetByFullName(owner, name)
	if err != nil {
		log.Fatalf("Repository %s is not registered: %v", *repoName, err)
	}

	if *file != "" {
		printTimeline(authorStatsService, repo, *file)
		return
	}

	printFiles(authorStatsService, repo)
	fmt.Println()
	printAuthors(authorStatsService, repo)
}

// splitFullName splits "owner/name" into its parts
func splitFullName(fullName string) (string, string, bool) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}

// printFiles renders the per-file ownership summary table
func printFiles(authorStatsService *services.AuthorStatsService, repo *models.Repository) {
	summaries, err := authorStatsService.GetFileSummaries(repo.ID)
	if err != nil {
		log.Fatalf("Failed to load file summaries: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Workflow files: %s", repo.FullName())
	t.AppendHeader(table.Row{"File", "Owner", "Events", "Authors", "Owner Changes", "First", "Last"})
	for _, summary := range summaries {
		t.AppendRow(table.Row{
			summary.File,
			summary.Owner,
			summary.Events,
			summary.Authors,
			summary.OwnerChanges,
			formatDate(summary.FirstChange),
			formatDate(summary.LastChange),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// printAuthors renders the per-author statistics table
func printAuthors(authorStatsService *services.AuthorStatsService, repo *models.Repository) {
	stats, err := authorStatsService.GetAuthorStats(repo.ID)
	if err != nil {
		log.Fatalf("Failed to load author statistics: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Contributors: %s", repo.FullName())
	t.AppendHeader(table.Row{"Author", "Commits", "Changes", "Additions", "Deletions", "Files Owned"})
	for _, stat := range stats {
		t.AppendRow(table.Row{
			stat.Author,
			stat.Commits,
			stat.Changes,
			stat.Additions,
			stat.Deletions,
			stat.FilesOwned,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// printTimeline renders one file's ownership timeline
func printTimeline(authorStatsService *services.AuthorStatsService, repo *models.Repository, file string) {
	timeline, err := authorStatsService.GetFileTimeline(repo.ID, file)
	if err != nil {
		log.Fatalf("Failed to load ownership timeline: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Ownership timeline: %s (%s)", file, repo.FullName())
	t.AppendHeader(table.Row{"Date", "Author", "Leading Author"})
	for _, event := range timeline {
		t.AppendRow(table.Row{
			event.Date.Format("2006-01-02 15:04:05"),
			event.Author,
			event.LeadingAuthor,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// formatDate formats a nullable date for a table cell
func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return date.Format("2006-01-02")
}
