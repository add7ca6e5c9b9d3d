package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using SQLite
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = "id, category, amount, expense_date, note"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		expense domain.Expense
		amount  string
		note    sql.NullString
	)
	if err := row.Scan(&expense.ID, &expense.Category, &amount, &expense.Date, &note); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount of expense %d: %w", expense.ID, err)
	}
	expense.Amount = parsed
	if note.Valid {
		expense.Note = &note.String
	}
	return &expense, nil
}

// Create inserts a new expense and returns it with its assigned ID
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	created, err := insertExpense(ctx, r.db, expense)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return created, nil
}

// CreateMany inserts the expenses inside a single transaction
func (r *ExpenseRepository) CreateMany(ctx context.Context, expenses []*domain.Expense) ([]*domain.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create expenses: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]*domain.Expense, 0, len(expenses))
	for i, expense := range expenses {
		stored, err := insertExpense(ctx, tx, expense)
		if err != nil {
			return nil, fmt.Errorf("create expenses: row %d: %w", i+1, err)
		}
		created = append(created, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create expenses: commit: %w", err)
	}
	return created, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertExpense(ctx context.Context, q queryRower, expense *domain.Expense) (*domain.Expense, error) {
	var note sql.NullString
	if expense.Note != nil {
		note = sql.NullString{String: *expense.Note, Valid: true}
	}

	row := q.QueryRowContext(ctx,
		`INSERT INTO expenses (category, amount, expense_date, note)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+expenseColumns,
		string(expense.Category), expense.Amount.String(), expense.Date, note,
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// List returns every expense, newest first
func (r *ExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY expense_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
