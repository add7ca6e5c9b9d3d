package handler

import (
	"net/http"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the fixed category list
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoriesResponse lists categories in display order
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: domain.AllCategories})
}
