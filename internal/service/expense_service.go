package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/websocket"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock used for undated expenses
func (s *ExpenseService) SetClock(now func() time.Time) {
	s.now = now
}

// publishEvent publishes an event if a publisher is configured
func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateExpenseInput contains input for logging an expense
type CreateExpenseInput struct {
	Category string
	Amount   decimal.Decimal
	Date     string // ISO-8601; empty means now
	Note     *string
}

// validate checks the input and returns the expense to store
func (s *ExpenseService) validate(input CreateExpenseInput) (*domain.Expense, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	var date string
	if strings.TrimSpace(input.Date) == "" {
		date = cycle.FormatExpenseDate(s.now())
	} else {
		parsed, ok := cycle.ParseExpenseDate(input.Date, time.Local)
		if !ok {
			return nil, domain.ErrInvalidDate
		}
		date = cycle.FormatExpenseDate(parsed)
	}

	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if utf8.RuneCountInString(trimmed) > domain.MaxNoteLength {
			return nil, domain.ErrNoteTooLong
		}
		if trimmed != "" {
			note = &trimmed
		}
	}

	return &domain.Expense{
		Category: category,
		Amount:   input.Amount,
		Date:     date,
		Note:     note,
	}, nil
}

// AddExpense validates and stores a new expense
func (s *ExpenseService) AddExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	expense, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseCreated(created))
	return created, nil
}

// ImportExpenses validates every input, then stores them in one batch.
// Either every expense is stored or none is. Returns the number created.
func (s *ExpenseService) ImportExpenses(ctx context.Context, inputs []CreateExpenseInput) (int, error) {
	expenses := make([]*domain.Expense, 0, len(inputs))
	for _, input := range inputs {
		expense, err := s.validate(input)
		if err != nil {
			return 0, err
		}
		expenses = append(expenses, expense)
	}

	if len(expenses) == 0 {
		return 0, nil
	}

	created, err := s.expenseRepo.CreateMany(ctx, expenses)
	if err != nil {
		return 0, err
	}
	for _, expense := range created {
		s.publishEvent(websocket.ExpenseCreated(expense))
	}
	return len(created), nil
}

// GetExpense retrieves a single expense
func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// ListExpenses returns every expense, newest first
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return s.expenseRepo.List(ctx)
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(websocket.ExpenseDeleted(map[string]interface{}{"id": id}))
	return nil
}
