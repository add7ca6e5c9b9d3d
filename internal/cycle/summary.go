package cycle

import (
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
)

// CycleSummary is the current-cycle view: window, spending against budget, and the
// in-window expenses in display order
type CycleSummary struct {
	Window
	TotalSpent decimal.Decimal  `json:"totalSpent"`
	Budget     decimal.Decimal  `json:"budget"`
	Balance    decimal.Decimal  `json:"balance"`
	Expenses   []domain.Expense `json:"expenses"`
}

// Summarize runs the whole pipeline for the cycle containing now
func Summarize(expenses []domain.Expense, settings domain.Settings, now time.Time, order SortOrder) CycleSummary {
	window := ResolveCycle(settings.CycleStartDay, now)
	inCycle := FilterByWindow(expenses, window)
	spent := AggregateSummary(inCycle).Total
	status := EvaluateBudget(spent, settings.Salary)

	return CycleSummary{
		Window:     window,
		TotalSpent: spent,
		Budget:     settings.Salary,
		Balance:    status.Balance,
		Expenses:   SortExpenses(inCycle, order, window.Location()),
	}
}
