package cycle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
)

// SortOrder selects how expenses are ordered for display
type SortOrder string

const (
	// SortByDate puts the newest expense first
	SortByDate SortOrder = "date"
	// SortByAmount puts the largest expense first
	SortByAmount SortOrder = "amount"
)

// ParseSortOrder accepts "date" or "amount"; an empty value means SortByDate
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByAmount:
		return SortByAmount, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidInput, s)
}

type datedExpense struct {
	expense domain.Expense
	date    time.Time
	valid   bool
}

// SortExpenses returns a sorted copy of expenses. The sort is stable, so ties keep their
// original order. When sorting by date, undated or unparseable entries go last.
func SortExpenses(expenses []domain.Expense, order SortOrder, loc *time.Location) []domain.Expense {
	dated := make([]datedExpense, len(expenses))
	for i, exp := range expenses {
		date, ok := ParseExpenseDate(exp.Date, loc)
		dated[i] = datedExpense{expense: exp, date: date, valid: ok}
	}

	switch order {
	case SortByAmount:
		slices.SortStableFunc(dated, func(a, b datedExpense) int {
			return b.expense.Amount.Cmp(a.expense.Amount)
		})
	default:
		slices.SortStableFunc(dated, compareNewestFirst)
	}

	result := make([]domain.Expense, len(dated))
	for i, d := range dated {
		result[i] = d.expense
	}
	return result
}

func compareNewestFirst(a, b datedExpense) int {
	switch {
	case a.valid && b.valid:
		return b.date.Compare(a.date)
	case a.valid:
		return -1
	case b.valid:
		return 1
	}
	return 0
}
