package cycle

import "github.com/shopspring/decimal"

// BudgetStatus compares spending against the budget limit for one cycle
type BudgetStatus struct {
	Spent   decimal.Decimal `json:"spent"`
	Budget  decimal.Decimal `json:"budget"`
	Balance decimal.Decimal `json:"balance"`
	// ProgressRatio is capped at 1; Overspent tells whether the cap was hit by exceeding the budget
	ProgressRatio decimal.Decimal `json:"progressRatio"`
	Overspent     bool            `json:"overspent"`
}

// EvaluateBudget computes balance and progress for spent against budget.
// Balance never goes below zero. With a zero budget the ratio is 1 once anything is spent.
func EvaluateBudget(spent, budget decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		Spent:         spent,
		Budget:        budget,
		Balance:       decimal.Max(decimal.Zero, budget.Sub(spent)),
		ProgressRatio: decimal.Zero,
		Overspent:     spent.GreaterThan(budget),
	}

	switch {
	case budget.IsPositive():
		status.ProgressRatio = decimal.Min(spent.Div(budget), decimal.NewFromInt(1))
	case spent.IsPositive():
		status.ProgressRatio = decimal.NewFromInt(1)
	}
	return status
}
