package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/HoussamEddineSmati/SpendKiler/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCycleService(now time.Time) (*CycleService, *testutil.MockExpenseRepository, *testutil.MockSettingsRepository) {
	expenseRepo := testutil.NewMockExpenseRepository()
	settingsRepo := testutil.NewMockSettingsRepository()
	svc := NewCycleService(expenseRepo, settingsRepo)
	svc.SetClock(testutil.FixedClock(now))
	return svc, expenseRepo, settingsRepo
}

func addExpense(repo *testutil.MockExpenseRepository, id int64, category domain.Category, amount int64, date string) {
	repo.AddExpense(&domain.Expense{
		ID:       id,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	})
}

func TestGetSummary(t *testing.T) {
	svc, expenseRepo, settingsRepo := setupCycleService(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))
	settingsRepo.SetSalary(7000)
	settingsRepo.Settings.CycleStartDay = 15
	addExpense(expenseRepo, 1, domain.CategoryRent, 3000, "2024-01-15T00:00:00.000Z")
	addExpense(expenseRepo, 2, domain.CategoryTaxi, 40, "2024-02-09T18:30:00.000Z")
	addExpense(expenseRepo, 3, domain.CategoryGrocery, 200, "2024-01-14T23:59:59.999Z")

	overview, err := svc.GetSummary(context.Background(), cycle.SortByAmount)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), overview.Start)
	assert.Equal(t, "3040", overview.TotalSpent.String())
	assert.Equal(t, "3960", overview.Balance.String())
	assert.False(t, overview.Status.Overspent)
	assert.Equal(t, 2, overview.Stats.Count)
	assert.Equal(t, "1520.00", overview.Stats.Average.StringFixed(2))
	require.Len(t, overview.Expenses, 2)
	assert.Equal(t, int64(1), overview.Expenses[0].ID)
}

func TestGetSummary_Overspent(t *testing.T) {
	svc, expenseRepo, settingsRepo := setupCycleService(time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	settingsRepo.SetSalary(7000)
	addExpense(expenseRepo, 1, domain.CategoryRent, 8000, "2024-03-02T00:00:00.000Z")

	overview, err := svc.GetSummary(context.Background(), cycle.SortByDate)

	require.NoError(t, err)
	assert.True(t, overview.Balance.IsZero())
	assert.True(t, overview.Status.ProgressRatio.Equal(decimal.NewFromInt(1)))
	assert.True(t, overview.Status.Overspent)
}

func TestGetSummary_RecentLimit(t *testing.T) {
	svc, expenseRepo, _ := setupCycleService(time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC))
	for i := 1; i <= 15; i++ {
		addExpense(expenseRepo, int64(i), domain.CategoryGrocery, int64(i), fmt.Sprintf("2024-03-%02dT10:00:00.000Z", i))
	}

	overview, err := svc.GetSummary(context.Background(), cycle.SortByDate)

	require.NoError(t, err)
	require.Len(t, overview.Expenses, DefaultRecentExpensesLimit)
	assert.Equal(t, int64(15), overview.Expenses[0].ID)
	assert.Equal(t, 15, overview.Stats.Count, "stats cover the whole cycle, not just the listed expenses")
	assert.Equal(t, "120", overview.TotalSpent.String())

	svc.SetRecentLimit(0)
	overview, err = svc.GetSummary(context.Background(), cycle.SortByDate)
	require.NoError(t, err)
	assert.Len(t, overview.Expenses, 15)
}

func TestGetSummary_LoadError(t *testing.T) {
	svc, expenseRepo, _ := setupCycleService(time.Now())
	expenseRepo.ListFn = func(ctx context.Context) ([]domain.Expense, error) {
		return nil, errors.New("database is locked")
	}

	_, err := svc.GetSummary(context.Background(), cycle.SortByDate)

	assert.EqualError(t, err, "database is locked")
}

func TestGetSummary_SettingsError(t *testing.T) {
	svc, _, settingsRepo := setupCycleService(time.Now())
	settingsRepo.GetFn = func(ctx context.Context) (*domain.Settings, error) {
		return nil, domain.ErrSettingsNotFound
	}

	_, err := svc.GetSummary(context.Background(), cycle.SortByDate)

	assert.True(t, errors.Is(err, domain.ErrSettingsNotFound))
}

func TestGetAnalysis(t *testing.T) {
	svc, expenseRepo, _ := setupCycleService(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, 1, domain.CategoryRent, 100, "2024-01-02T00:00:00.000Z")
	addExpense(expenseRepo, 2, domain.CategoryRent, 50, "2024-01-03T00:00:00.000Z")
	addExpense(expenseRepo, 3, domain.CategoryTaxi, 25, "2024-01-04T00:00:00.000Z")
	addExpense(expenseRepo, 4, domain.CategoryPhone, 999, "2023-12-31T00:00:00.000Z")

	analysis, err := svc.GetAnalysis(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "175", analysis.Total.String())
	require.Len(t, analysis.Shares, 2)
	assert.Equal(t, domain.CategoryRent, analysis.Shares[0].Category)
	assert.Equal(t, int64(86), analysis.Shares[0].Percentage)
	assert.Equal(t, domain.CategoryTaxi, analysis.Shares[1].Category)
	assert.Equal(t, int64(14), analysis.Shares[1].Percentage)
}

func TestGetAnalysis_Empty(t *testing.T) {
	svc, _, _ := setupCycleService(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))

	analysis, err := svc.GetAnalysis(context.Background())

	require.NoError(t, err)
	assert.True(t, analysis.Total.IsZero())
	assert.Empty(t, analysis.Shares)
}

func TestGetHistoryTotal(t *testing.T) {
	svc, expenseRepo, _ := setupCycleService(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))
	addExpense(expenseRepo, 1, domain.CategoryRent, 100, "2023-06-02T00:00:00.000Z")
	addExpense(expenseRepo, 2, domain.CategoryTaxi, 25, "2024-01-04T00:00:00.000Z")

	history, err := svc.GetHistoryTotal(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "125", history.Total.String())
	assert.Equal(t, 2, history.Count)
}
