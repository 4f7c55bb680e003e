package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

// ActualCostFootnote explains why the current month's actual cost trails its forecast.
const ActualCostFootnote = "* Actual cost covers metered days only, so the current month is partial."

// MonthlyTable builds the monthly cost table.
func MonthlyTable(monthly []model.MonthlyAggregate) Table {
	rows := lo.Map(monthly, func(m model.MonthlyAggregate, _ int) []string {
		return []string{
			m.Label,
			FormatCredits(m.ActualSum),
			FormatCredits(m.ForecastSum),
			FormatCost(m.ActualCost),
			FormatCost(m.ForecastCost),
		}
	})
	return Table{
		Title:    "Monthly Cost",
		Headers:  []string{"Month", "Credits Actual", "Credits Forecast", "Cost Actual*", "Cost Forecast"},
		Rows:     rows,
		Footnote: ActualCostFootnote,
	}
}

// RenderReport renders a finished run: summary, daily chart and monthly table.
func RenderReport(rep *pipeline.Report, chartWidth int) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Credit Usage Forecast"))
	b.WriteString("\n\n")

	trend := lo.Map(rep.Result.Monthly, func(m model.MonthlyAggregate, _ int) float64 { return m.ForecastSum })
	cache := "miss"
	if rep.CacheHit {
		cache = "hit"
	}
	b.WriteString(RenderKV([][2]string{
		{"History", fmt.Sprintf("%d days", rep.HistoryDays)},
		{"Horizon", fmt.Sprintf("%d days through %s", rep.HorizonDays, rep.HorizonEnd.Format(dates.Layout))},
		{"Price", FormatPrice(rep.Price)},
		{"Forecast cost", costStyle.Render(FormatCost(rep.TotalCost))},
		{"Monthly trend", RenderSparkline(trend)},
		{"Query cache", cache},
		{"Run", fmt.Sprintf("%s in %s", rep.RunID, FormatDuration(rep.Duration))},
	}))
	b.WriteString("\n")

	b.WriteString(RenderDailyChart(rep.Result.Daily, chartWidth, 12))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(MonthlyTable(rep.Result.Monthly)))
	return b.String()
}
