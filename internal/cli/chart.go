package cli

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/theirongolddev/creditcast/internal/model"
)

// RenderDailyChart plots actual credits (red) against the forecast (blue).
// Days without an actual value are gaps. Series longer than width are
// resampled by asciigraph.
func RenderDailyChart(daily []model.MergedRecord, width, height int) string {
	if len(daily) == 0 {
		return mutedStyle.Render("  No data available")
	}
	width = max(width, 20)
	height = max(height, 3)

	actual := make([]float64, len(daily))
	forecast := make([]float64, len(daily))
	for i, d := range daily {
		actual[i] = math.NaN()
		if d.Actual != nil {
			actual[i] = *d.Actual
		}
		forecast[i] = d.Forecast
	}

	return asciigraph.PlotMany([][]float64{actual, forecast},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("daily credits: actual (red) vs forecast (blue)"),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)
}
