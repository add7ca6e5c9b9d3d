package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = "id, category, amount, expense_date, note"

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense  domain.Expense
		category string
		amount   pgtype.Numeric
	)
	if err := row.Scan(&expense.ID, &category, &amount, &expense.Date, &expense.Note); err != nil {
		return nil, err
	}
	expense.Category = domain.Category(category)
	expense.Amount = pgNumericToDecimal(amount)
	return &expense, nil
}

// Create inserts a new expense and returns it with its assigned ID
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	created, err := insertExpense(ctx, r.pool, expense)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return created, nil
}

// CreateMany inserts the expenses inside a single transaction
func (r *ExpenseRepository) CreateMany(ctx context.Context, expenses []*domain.Expense) ([]*domain.Expense, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("create expenses: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created := make([]*domain.Expense, 0, len(expenses))
	for i, expense := range expenses {
		stored, err := insertExpense(ctx, tx, expense)
		if err != nil {
			return nil, fmt.Errorf("create expenses: row %d: %w", i+1, err)
		}
		created = append(created, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("create expenses: commit: %w", err)
	}
	return created, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertExpense(ctx context.Context, q queryRower, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(ctx,
		`INSERT INTO expenses (category, amount, expense_date, note)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+expenseColumns,
		string(expense.Category), amount, expense.Date, expense.Note,
	)

	created, err := scanExpense(row)
	if err != nil {
		if isPgCheckViolation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	expense, err := scanExpense(r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense, nil
}

// List returns every expense, newest first
func (r *ExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}
