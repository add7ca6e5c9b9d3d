// Package charts renders spending breakdowns as images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/HoussamEddineSmati/SpendKiler/internal/cycle"
	"github.com/wcharczuk/go-chart/v2"
)

// ContentType is the MIME type of rendered charts
const ContentType = "image/png"

// ErrNoChartData is returned when there is nothing to plot
var ErrNoChartData = errors.New("no spending to chart")

// Size of the rendered image in pixels
const (
	DefaultWidth  = 800
	DefaultHeight = 800
)

// ChartGenerator renders category share charts
type ChartGenerator struct {
	width  int
	height int
}

// NewChartGenerator creates a generator using the default image size
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{width: DefaultWidth, height: DefaultHeight}
}

// CategoryPie renders a pie chart of the given shares as PNG
func (g *ChartGenerator) CategoryPie(title string, shares []cycle.CategoryShare) ([]byte, error) {
	values := make([]chart.Value, 0, len(shares))
	for _, share := range shares {
		if !share.Amount.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%d%%)", share.Category, share.Amount.StringFixed(2), share.Percentage),
			Value: share.Amount.InexactFloat64(),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoChartData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  g.width,
		Height: g.height,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}

	return buffer.Bytes(), nil
}
