package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExpenseDateLayout is the canonical stored form of an expense date (UTC, millisecond precision)
const ExpenseDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Expense is a single logged spending record. Expenses are never updated, only created or deleted.
type Expense struct {
	ID       int64           `json:"id"`
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Note     *string         `json:"note,omitempty"`
}

// ExpenseRepository is the persistence collaborator for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	// CreateMany stores all expenses in one transaction; on error none are stored
	CreateMany(ctx context.Context, expenses []*Expense) ([]*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	// List returns every expense ordered by date descending
	List(ctx context.Context) ([]Expense, error)
	Delete(ctx context.Context, id int64) error
}
