package service

import (
	"context"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultRecentExpensesLimit is how many expenses the cycle summary lists
const DefaultRecentExpensesLimit = 10

// CycleService runs the cycle pipeline over stored data
type CycleService struct {
	expenseRepo  domain.ExpenseRepository
	settingsRepo domain.SettingsRepository
	now          func() time.Time
	recentLimit  int
}

// NewCycleService creates a new CycleService
func NewCycleService(expenseRepo domain.ExpenseRepository, settingsRepo domain.SettingsRepository) *CycleService {
	return &CycleService{
		expenseRepo:  expenseRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
		recentLimit:  DefaultRecentExpensesLimit,
	}
}

// SetClock overrides the clock that decides the current cycle
func (s *CycleService) SetClock(now func() time.Time) {
	s.now = now
}

// SetRecentLimit sets how many expenses GetSummary returns; zero or less means all
func (s *CycleService) SetRecentLimit(limit int) {
	s.recentLimit = limit
}

// CycleOverview is the home screen: the current cycle with budget status and statistics
type CycleOverview struct {
	cycle.CycleSummary
	Status cycle.BudgetStatus `json:"status"`
	Stats  cycle.Summary      `json:"stats"`
}

// CycleAnalysis is the per-category breakdown of the current cycle
type CycleAnalysis struct {
	cycle.Window
	Total  decimal.Decimal       `json:"total"`
	Shares []cycle.CategoryShare `json:"shares"`
}

// HistoryTotal summarises every stored expense. Expenses is the list the
// totals were computed from, newest first.
type HistoryTotal struct {
	Expenses []domain.Expense `json:"expenses"`
	Total    decimal.Decimal  `json:"total"`
	Count    int              `json:"count"`
}

// load fetches expenses and settings concurrently
func (s *CycleService) load(ctx context.Context) ([]domain.Expense, *domain.Settings, error) {
	var (
		expenses []domain.Expense
		settings *domain.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.settingsRepo.Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, settings, nil
}

// GetSummary returns the current cycle overview with expenses in the requested order
func (s *CycleService) GetSummary(ctx context.Context, order cycle.SortOrder) (*CycleOverview, error) {
	expenses, settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summary := cycle.Summarize(expenses, *settings, s.now(), order)
	overview := &CycleOverview{
		CycleSummary: summary,
		Status:       cycle.EvaluateBudget(summary.TotalSpent, summary.Budget),
		Stats:        cycle.AggregateSummary(summary.Expenses),
	}

	if s.recentLimit > 0 && len(overview.Expenses) > s.recentLimit {
		overview.Expenses = overview.Expenses[:s.recentLimit]
	}
	return overview, nil
}

// GetAnalysis returns category shares for the current cycle, largest first
func (s *CycleService) GetAnalysis(ctx context.Context) (*CycleAnalysis, error) {
	expenses, settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	window := cycle.ResolveCycle(settings.CycleStartDay, s.now())
	totals := cycle.AggregateByCategory(cycle.FilterByWindow(expenses, window))

	return &CycleAnalysis{
		Window: window,
		Total:  totals.Total(),
		Shares: cycle.CategoryShares(totals),
	}, nil
}

// GetHistoryTotal sums every stored expense regardless of cycle
func (s *CycleService) GetHistoryTotal(ctx context.Context) (*HistoryTotal, error) {
	expenses, err := s.expenseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if expenses == nil {
		expenses = []domain.Expense{}
	}
	summary := cycle.AggregateSummary(expenses)
	return &HistoryTotal{Expenses: expenses, Total: summary.Total, Count: summary.Count}, nil
}
