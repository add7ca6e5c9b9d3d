package cycle

import (
	"slices"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotals maps a category to the summed amount of its expenses.
// Categories without expenses have no entry.
type CategoryTotals map[domain.Category]decimal.Decimal

// Total returns the sum over every category
func (t CategoryTotals) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range t {
		total = total.Add(amount)
	}
	return total
}

// Summary holds overall statistics for a list of expenses
type Summary struct {
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Highest decimal.Decimal `json:"highest"`
	Count   int             `json:"count"`
}

// CategoryShare is a category's total and its rounded percentage of all spending
type CategoryShare struct {
	Category   domain.Category `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage int64           `json:"percentage"`
}

// AggregateByCategory sums expense amounts per category
func AggregateByCategory(expenses []domain.Expense) CategoryTotals {
	totals := make(CategoryTotals)
	for _, exp := range expenses {
		totals[exp.Category] = totals[exp.Category].Add(exp.Amount)
	}
	return totals
}

// AggregateSummary computes total, average, highest and count.
// An empty list yields zeros throughout.
func AggregateSummary(expenses []domain.Expense) Summary {
	summary := Summary{
		Total:   decimal.Zero,
		Average: decimal.Zero,
		Highest: decimal.Zero,
		Count:   len(expenses),
	}
	if len(expenses) == 0 {
		return summary
	}

	summary.Highest = expenses[0].Amount
	for _, exp := range expenses {
		summary.Total = summary.Total.Add(exp.Amount)
		if exp.Amount.GreaterThan(summary.Highest) {
			summary.Highest = exp.Amount
		}
	}
	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))
	return summary
}

// CategoryShares converts totals into percentage shares of their sum, largest first.
// Percentages are rounded half away from zero, so they add up to 100 give or take rounding.
// A zero sum returns an empty slice.
func CategoryShares(totals CategoryTotals) []CategoryShare {
	total := totals.Total()
	if !total.IsPositive() {
		return []CategoryShare{}
	}

	shares := make([]CategoryShare, 0, len(totals))
	for category, amount := range totals {
		shares = append(shares, CategoryShare{
			Category:   category,
			Amount:     amount,
			Percentage: amount.Mul(hundred).Div(total).Round(0).IntPart(),
		})
	}

	// Map order is random; ties fall back to the fixed category order
	slices.SortFunc(shares, func(a, b CategoryShare) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return a.Category.Index() - b.Category.Index()
	})
	return shares
}
