package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/HoussamEddineSmati/SpendKiler/internal/charts"
	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/labstack/echo/v4"
)

// CycleHandler serves the current budget cycle views
type CycleHandler struct {
	cycleService *service.CycleService
	charts       *charts.ChartGenerator
}

// NewCycleHandler creates a new CycleHandler
func NewCycleHandler(cycleService *service.CycleService, chartGenerator *charts.ChartGenerator) *CycleHandler {
	return &CycleHandler{
		cycleService: cycleService,
		charts:       chartGenerator,
	}
}

// GetSummary handles GET /cycle/summary?sort=date|amount
func (h *CycleHandler) GetSummary(c echo.Context) error {
	order, err := cycle.ParseSortOrder(c.QueryParam("sort"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "sort", Message: "Sort must be date or amount"},
		})
	}

	overview, err := h.cycleService.GetSummary(c.Request().Context(), order)
	if err != nil {
		return handleServiceError(c, err, "get cycle summary")
	}
	return c.JSON(http.StatusOK, overview)
}

// GetAnalysis handles GET /cycle/analysis
func (h *CycleHandler) GetAnalysis(c echo.Context) error {
	analysis, err := h.cycleService.GetAnalysis(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get cycle analysis")
	}
	if analysis.Shares == nil {
		analysis.Shares = []cycle.CategoryShare{}
	}
	return c.JSON(http.StatusOK, analysis)
}

// GetAnalysisChart handles GET /cycle/analysis/chart.png
func (h *CycleHandler) GetAnalysisChart(c echo.Context) error {
	analysis, err := h.cycleService.GetAnalysis(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "get cycle analysis")
	}

	title := fmt.Sprintf("%s - %s", analysis.Start.Format("Jan 2"), analysis.End.Format("Jan 2, 2006"))
	png, err := h.charts.CategoryPie(title, analysis.Shares)
	if err != nil {
		if errors.Is(err, charts.ErrNoChartData) {
			return NewNotFoundError(c, "No spending in the current cycle")
		}
		return handleServiceError(c, err, "render chart")
	}

	return c.Blob(http.StatusOK, charts.ContentType, png)
}
