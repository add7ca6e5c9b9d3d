package cycle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateBudget_UnderBudget(t *testing.T) {
	status := EvaluateBudget(decimal.NewFromInt(1750), decimal.NewFromInt(7000))

	assert.Equal(t, "5250.00", status.Balance.StringFixed(2))
	assert.Equal(t, "0.25", status.ProgressRatio.StringFixed(2))
	assert.False(t, status.Overspent)
}

func TestEvaluateBudget_OverBudgetClampsBalanceAndRatio(t *testing.T) {
	status := EvaluateBudget(decimal.NewFromInt(8000), decimal.NewFromInt(7000))

	assert.True(t, status.Balance.IsZero(), "balance should clamp to 0, got %s", status.Balance)
	assert.True(t, status.ProgressRatio.Equal(decimal.NewFromInt(1)))
	assert.True(t, status.Overspent)
	assert.Equal(t, "8000", status.Spent.String())
	assert.Equal(t, "7000", status.Budget.String())
}

func TestEvaluateBudget_ExactlyOnBudget(t *testing.T) {
	status := EvaluateBudget(decimal.NewFromInt(500), decimal.NewFromInt(500))

	assert.True(t, status.Balance.IsZero())
	assert.True(t, status.ProgressRatio.Equal(decimal.NewFromInt(1)))
	assert.False(t, status.Overspent)
}

func TestEvaluateBudget_ZeroBudget(t *testing.T) {
	tests := []struct {
		name          string
		spent         decimal.Decimal
		expectedRatio int64
		overspent     bool
	}{
		{"nothing spent", decimal.Zero, 0, false},
		{"something spent", decimal.RequireFromString("0.01"), 1, true},
		{"a lot spent", decimal.NewFromInt(9999), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := EvaluateBudget(tt.spent, decimal.Zero)

			assert.True(t, status.ProgressRatio.Equal(decimal.NewFromInt(tt.expectedRatio)))
			assert.True(t, status.Balance.IsZero())
			assert.Equal(t, tt.overspent, status.Overspent)
		})
	}
}

func TestEvaluateBudget_NothingSpent(t *testing.T) {
	status := EvaluateBudget(decimal.Zero, decimal.NewFromInt(3000))

	assert.Equal(t, "3000", status.Balance.String())
	assert.True(t, status.ProgressRatio.IsZero())
}
