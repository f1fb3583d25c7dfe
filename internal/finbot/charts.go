package finbot

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"finbot-backend/internal/models"
)

// renderSpendingChart writes a bar chart of per-category expense totals as a
// PNG at path.
func renderSpendingChart(breakdown []models.CategoryTotal, path string) error {
	bars := make([]chart.Value, 0, len(breakdown))
	for _, ct := range breakdown {
		bars = append(bars, chart.Value{
			Label: ct.Category,
			Value: ct.Total,
		})
	}

	graph := chart.BarChart{
		Title:    "Spending by Category",
		Width:    900,
		Height:   450,
		BarWidth: 70,
		Bars:     bars,
		XAxis: chart.Style{
			TextRotationDegrees: 0,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}
