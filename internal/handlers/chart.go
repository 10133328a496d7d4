package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ci-insights/actionscope/internal/services"
)

type ChartHandler struct {
	chartService *services.ChartService
}

func NewChartHandler(chartService *services.ChartService) *ChartHandler {
	return &ChartHandler{
		chartService: chartService,
	}
}

// Contributions renders the workflow contributions bar chart
func (h *ChartHandler) Contributions(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.chartService.RenderContributionsChart(c.Param("id"), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Could not render chart: %v", err)
	}
}

// Ownership renders one workflow file's ownership timeline chart
func (h *ChartHandler) Ownership(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.chartService.RenderOwnershipChart(c.Param("id"), c.Param("file"), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "Could not render chart: %v", err)
	}
}
