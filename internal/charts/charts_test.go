package charts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/HoussamEddineSmati/SpendKiler/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestCategoryPie_RendersPNG(t *testing.T) {
	shares := cycle.CategoryShares(cycle.CategoryTotals{
		domain.CategoryRent: decimal.NewFromInt(150),
		domain.CategoryTaxi: decimal.NewFromInt(25),
	})

	img, err := NewChartGenerator().CategoryPie("January", shares)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature), "expected PNG output")
}

func TestCategoryPie_SingleCategory(t *testing.T) {
	shares := []cycle.CategoryShare{
		{Category: domain.CategoryGrocery, Amount: decimal.NewFromInt(80), Percentage: 100},
	}

	img, err := NewChartGenerator().CategoryPie("", shares)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngSignature))
}

func TestCategoryPie_NoData(t *testing.T) {
	tests := []struct {
		name   string
		shares []cycle.CategoryShare
	}{
		{"nil", nil},
		{"zero amounts", []cycle.CategoryShare{{Category: domain.CategoryApp, Amount: decimal.Zero}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewChartGenerator().CategoryPie("", tt.shares)

			assert.Nil(t, img)
			assert.True(t, errors.Is(err, ErrNoChartData))
		})
	}
}
