package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/export"
	"github.com/HoussamEddineSmati/SpendKiler/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// maxImportSize caps CSV uploads
const maxImportSize = 5 << 20

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	cycleService   *service.CycleService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, cycleService *service.CycleService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		cycleService:   cycleService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Category string           `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     string           `json:"date"`
	Note     *string          `json:"note"`
}

// ExpenseListResponse wraps the full expense history
type ExpenseListResponse struct {
	Expenses []domain.Expense `json:"expenses"`
	Total    decimal.Decimal  `json:"total"`
	Count    int              `json:"count"`
}

// ImportResponse reports how many rows an import created
type ImportResponse struct {
	Imported int `json:"imported"`
}

// CreateExpense handles POST /expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Amount == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount is required"},
		})
	}

	expense, err := h.expenseService.AddExpense(c.Request().Context(), service.CreateExpenseInput{
		Category: req.Category,
		Amount:   *req.Amount,
		Date:     req.Date,
		Note:     req.Note,
	})
	if err != nil {
		return handleServiceError(c, err, "create expense")
	}

	log.Info().Int64("expense_id", expense.ID).Str("category", string(expense.Category)).Msg("Expense created")
	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses handles GET /expenses. The list and its total come from one read.
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	history, err := h.cycleService.GetHistoryTotal(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "list expenses")
	}

	return c.JSON(http.StatusOK, ExpenseListResponse{
		Expenses: history.Expenses,
		Total:    history.Total,
		Count:    history.Count,
	})
}

// GetExpense handles GET /expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, ok := parseExpenseID(c)
	if !ok {
		return invalidExpenseID(c)
	}

	expense, err := h.expenseService.GetExpense(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err, "get expense")
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense handles DELETE /expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, ok := parseExpenseID(c)
	if !ok {
		return invalidExpenseID(c)
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err, "delete expense")
	}

	log.Info().Int64("expense_id", id).Msg("Expense deleted")
	return c.NoContent(http.StatusNoContent)
}

// ExportCSV handles GET /expenses/export.csv
func (h *ExpenseHandler) ExportCSV(c echo.Context) error {
	expenses, err := h.expenseService.ListExpenses(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err, "export expenses")
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses); err != nil {
		return handleServiceError(c, err, "export expenses")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="expenses.csv"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

// ImportCSV handles POST /expenses/import.csv. The body is a CSV in the export format;
// ids in the file are ignored. Nothing is stored unless every row is valid.
func (h *ExpenseHandler) ImportCSV(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxImportSize)

	rows, err := export.ReadCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewValidationError(c, "CSV file is too large", nil)
		}
		if ve, ok := validationErrorFor(err); ok {
			return NewValidationError(c, err.Error(), []ValidationError{ve})
		}
		return NewValidationError(c, "Invalid CSV file", nil)
	}

	inputs := make([]service.CreateExpenseInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, service.CreateExpenseInput{
			Category: string(row.Category),
			Amount:   row.Amount,
			Date:     row.Date,
			Note:     row.Note,
		})
	}

	count, err := h.expenseService.ImportExpenses(c.Request().Context(), inputs)
	if err != nil {
		return handleServiceError(c, err, "import expenses")
	}

	log.Info().Int("count", count).Msg("Expenses imported")
	return c.JSON(http.StatusCreated, ImportResponse{Imported: count})
}

func parseExpenseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidExpenseID(c echo.Context) error {
	return NewValidationError(c, "Invalid expense ID", []ValidationError{
		{Field: "id", Message: "ID must be a positive integer"},
	})
}
