package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/services"
)

type HomeHandler struct {
	repositoryService *services.RepositoryService
}

func NewHomeHandler(repositoryService *services.RepositoryService) *HomeHandler {
	return &HomeHandler{
		repositoryService: repositoryService,
	}
}

// Index handles the home page: the list of registered repositories
func (h *HomeHandler) Index(c *gin.Context) {
	repos, err := h.repositoryService.List()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error", gin.H{
			"Title": "Error",
			"Error": "Could not load repositories",
		})
		return
	}

	data := gin.H{
		"Title":        "Workflow Ownership",
		"Repositories": repos,
	}

	c.HTML(http.StatusOK, "index", data)
}
