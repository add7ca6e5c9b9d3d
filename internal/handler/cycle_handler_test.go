package handler

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"testing"

	"github.com/HoussamEddineSmati/SpendKiler/internal/charts"
	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryResponse struct {
	TotalSpent decimal.Decimal    `json:"totalSpent"`
	Budget     decimal.Decimal    `json:"budget"`
	Balance    decimal.Decimal    `json:"balance"`
	Expenses   []domain.Expense   `json:"expenses"`
	Status     cycle.BudgetStatus `json:"status"`
	Stats      cycle.Summary      `json:"stats"`
}

func seedCycle(env *testEnv) {
	env.settingsRepo.SetSalary(1000)
	env.addExpense(1, domain.CategoryGrocery, 100, "2024-01-20T10:00:00.000Z")
	env.addExpense(2, domain.CategoryTaxi, 30, "2024-02-10T10:00:00.000Z")
	env.addExpense(3, domain.CategoryRent, 500, "2024-02-15T10:00:00.000Z")
}

func TestGetCycleSummary(t *testing.T) {
	env := newTestEnv()
	seedCycle(env)
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/summary", nil)

	require.NoError(t, h.GetSummary(c))
	requireStatus(t, rec, http.StatusOK)

	var response summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "530", response.TotalSpent.String())
	assert.Equal(t, "1000", response.Budget.String())
	assert.Equal(t, "470", response.Balance.String())
	assert.Equal(t, "0.53", response.Status.ProgressRatio.String())
	assert.False(t, response.Status.Overspent)
	assert.Equal(t, 2, response.Stats.Count)
	require.Len(t, response.Expenses, 2)
	assert.Equal(t, int64(3), response.Expenses[0].ID)
}

func TestGetCycleSummary_SortByAmount(t *testing.T) {
	env := newTestEnv()
	seedCycle(env)
	env.addExpense(4, domain.CategoryApp, 5, "2024-02-19T10:00:00.000Z")
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/summary?sort=amount", nil)

	require.NoError(t, h.GetSummary(c))
	requireStatus(t, rec, http.StatusOK)

	var response summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Expenses, 3)
	assert.Equal(t, int64(3), response.Expenses[0].ID)
	assert.Equal(t, int64(4), response.Expenses[2].ID)
}

func TestGetCycleSummary_InvalidSort(t *testing.T) {
	env := newTestEnv()
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/summary?sort=category", nil)

	require.NoError(t, h.GetSummary(c))
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "sort", decodeProblem(t, rec).Errors[0].Field)
}

func TestGetCycleAnalysis(t *testing.T) {
	env := newTestEnv()
	seedCycle(env)
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/analysis", nil)

	require.NoError(t, h.GetAnalysis(c))
	requireStatus(t, rec, http.StatusOK)

	var response struct {
		Total  decimal.Decimal       `json:"total"`
		Shares []cycle.CategoryShare `json:"shares"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "530", response.Total.String())
	require.Len(t, response.Shares, 2)
	assert.Equal(t, domain.CategoryRent, response.Shares[0].Category)
	assert.Equal(t, int64(94), response.Shares[0].Percentage)
	assert.Equal(t, int64(6), response.Shares[1].Percentage)
}

func TestGetCycleAnalysis_EmptyCycle(t *testing.T) {
	env := newTestEnv()
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/analysis", nil)

	require.NoError(t, h.GetAnalysis(c))
	requireStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"shares":[]`)
}

func TestGetAnalysisChart(t *testing.T) {
	env := newTestEnv()
	seedCycle(env)
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/analysis/chart.png", nil)

	require.NoError(t, h.GetAnalysisChart(c))
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, charts.ContentType, rec.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
}

func TestGetAnalysisChart_NoSpending(t *testing.T) {
	env := newTestEnv()
	h := NewCycleHandler(env.cycles, charts.NewChartGenerator())

	c, rec := newRequestContext(http.MethodGet, "/api/v1/cycle/analysis/chart.png", nil)

	require.NoError(t, h.GetAnalysisChart(c))
	requireStatus(t, rec, http.StatusNotFound)
}
