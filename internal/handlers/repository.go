package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/repositories"
	"github.com/ci-insights/actionscope/internal/services"
)

type RepositoryHandler struct {
	repositoryService  *services.RepositoryService
	jobService         *services.JobService
	authorStatsService *services.AuthorStatsService
	importService      *services.ImportService
	changeRepo         *repositories.ChangeRepository
}

func NewRepositoryHandler(
	repositoryService *services.RepositoryService,
	jobService *services.JobService,
	authorStatsService *services.AuthorStatsService,
	importService *services.ImportService,
	changeRepo *repositories.ChangeRepository,
) *RepositoryHandler {
	return &RepositoryHandler{
		repositoryService:  repositoryService,
		jobService:         jobService,
		authorStatsService: authorStatsService,
		importService:      importService,
		changeRepo:         changeRepo,
	}
}

// RegisterForm displays the repository registration form
func (h *RepositoryHandler) RegisterForm(c *gin.Context) {
	data := gin.H{
		"Title": "Add Repository",
	}

	c.HTML(http.StatusOK, "repository_create", data)
}

// Register handles repository registration
func (h *RepositoryHandler) Register(c *gin.Context) {
	owner := strings.TrimSpace(c.PostForm("owner"))
	name := strings.TrimSpace(c.PostForm("name"))

	if owner == "" || name == "" {
		c.HTML(http.StatusBadRequest, "repository_create", gin.H{
			"Title": "Add Repository",
			"Error": "Owner and repository name are required",
		})
		return
	}

	repo, err := h.repositoryService.Register(c.Request.Context(), owner, name)
	if err != nil {
		c.HTML(http.StatusBadRequest, "repository_create", gin.H{
			"Title": "Add Repository",
			"Error": err.Error(),
		})
		return
	}

	c.Redirect(http.StatusFound, "/repositories/"+repo.ID)
}

// View displays a repository's workflow ownership overview
func (h *RepositoryHandler) View(c *gin.Context) {
	repo, err := h.repositoryService.Get(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title": "Not Found",
			"Error": "Repository not found",
		})
		return
	}

	summaries, err := h.authorStatsService.GetFileSummaries(repo.ID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not load file summaries",
		})
		return
	}

	stats, err := h.authorStatsService.GetAuthorStats(repo.ID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not load author statistics",
		})
		return
	}

	jobs, err := h.jobService.GetJobsByRepository(repo.ID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not load jobs",
		})
		return
	}

	data := gin.H{
		"Title":      repo.FullName(),
		"Repository": repo,
		"Files":      summaries,
		"Authors":    stats,
		"Jobs":       jobs,
	}

	c.HTML(http.StatusOK, "repository_view", data)
}

// ViewFile displays one workflow file's ownership timeline
func (h *RepositoryHandler) ViewFile(c *gin.Context) {
	repo, err := h.repositoryService.Get(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title": "Not Found",
			"Error": "Repository not found",
		})
		return
	}

	file := c.Param("file")
	timeline, err := h.authorStatsService.GetFileTimeline(repo.ID, file)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not load ownership timeline",
		})
		return
	}

	data := gin.H{
		"Title":      repo.FullName() + ": " + file,
		"Repository": repo,
		"File":       file,
		"Timeline":   timeline,
	}

	c.HTML(http.StatusOK, "repository_file", data)
}

// Analyze queues the clone, history and ownership jobs for a repository
func (h *RepositoryHandler) Analyze(c *gin.Context) {
	repo, err := h.repositoryService.Get(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title": "Not Found",
			"Error": "Repository not found",
		})
		return
	}

	if _, err := h.jobService.CreateAnalysisJobs(repo.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not queue analysis jobs",
		})
		return
	}

	c.Redirect(http.StatusFound, "/repositories/"+repo.ID)
}

// Import loads an uploaded commit-history CSV for a repository and
// queues an ownership recomputation over it
func (h *RepositoryHandler) Import(c *gin.Context) {
	repo, err := h.repositoryService.Get(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title": "Not Found",
			"Error": "Repository not found",
		})
		return
	}

	fileHeader, err := c.FormFile("history")
	if err != nil {
		c.HTML(http.StatusBadRequest, "error", gin.H{
			"Title": "Error",
			"Error": "A commit history CSV file is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not open uploaded file",
		})
		return
	}
	defer file.Close()

	changes, err := h.importService.LoadCommitHistory(repo.ID, file)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error", gin.H{
			"Title": "Error",
			"Error": err.Error(),
		})
		return
	}

	// Replace any previously imported history
	if err := h.changeRepo.DeleteByRepositoryID(repo.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not clear previous history",
		})
		return
	}
	if err := h.changeRepo.CreateBatch(changes); err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not store commit history",
		})
		return
	}

	if _, err := h.jobService.CreateOwnershipJob(repo.ID); err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not queue ownership job",
		})
		return
	}

	c.Redirect(http.StatusFound, "/repositories/"+repo.ID)
}

// Delete removes a repository and everything derived from it
func (h *RepositoryHandler) Delete(c *gin.Context) {
	if err := h.repositoryService.Delete(c.Param("id")); err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not delete repository",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}
