package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/services"
)

type ExportHandler struct {
	repositoryService *services.RepositoryService
	exportService     *services.ExportService
}

func NewExportHandler(repositoryService *services.RepositoryService, exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{
		repositoryService: repositoryService,
		exportService:     exportService,
	}
}

// Export downloads a repository's ownership summary as an xlsx workbook
func (h *ExportHandler) Export(c *gin.Context) {
	repo, err := h.repositoryService.Get(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Repository not found")
		return
	}

	filename := fmt.Sprintf("%s-%s-workflow-ownership.xlsx", repo.Owner, repo.Name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.exportService.ExportRepository(repo.ID, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Could not export repository: %v", err)
	}
}
