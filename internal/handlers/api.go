package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/services"
)

// APIHandler exposes the aggregated views as JSON for scripted use
type APIHandler struct {
	repositoryService  *services.RepositoryService
	authorStatsService *services.AuthorStatsService
}

func NewAPIHandler(repositoryService *services.RepositoryService, authorStatsService *services.AuthorStatsService) *APIHandler {
	return &APIHandler{
		repositoryService:  repositoryService,
		authorStatsService: authorStatsService,
	}
}

// ListRepositories returns all registered repositories
func (h *APIHandler) ListRepositories(c *gin.Context) {
	repos, err := h.repositoryService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load repositories"})
		return
	}

	c.JSON(http.StatusOK, repos)
}

// FileSummaries returns a repository's per-file ownership summaries
func (h *APIHandler) FileSummaries(c *gin.Context) {
	summaries, err := h.authorStatsService.GetFileSummaries(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load file summaries"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// AuthorStats returns a repository's per-author statistics
func (h *APIHandler) AuthorStats(c *gin.Context) {
	stats, err := h.authorStatsService.GetAuthorStats(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load author statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// FileTimeline returns one workflow file's ownership timeline
func (h *APIHandler) FileTimeline(c *gin.Context) {
	timeline, err := h.authorStatsService.GetFileTimeline(c.Param("id"), c.Param("file"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load ownership timeline"})
		return
	}

	c.JSON(http.StatusOK, timeline)
}
