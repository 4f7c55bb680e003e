package web

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

// chartSet holds standalone chart documents, embedded via iframe srcdoc.
type chartSet struct {
	Daily   []byte
	Monthly []byte
}

// missing is how echarts marks a gap in a series.
const missing = "-"

func renderCharts(res *pipeline.Result) (*chartSet, error) {
	daily, err := renderDaily(res)
	if err != nil {
		return nil, fmt.Errorf("daily chart: %w", err)
	}
	monthly, err := renderMonthly(res)
	if err != nil {
		return nil, fmt.Errorf("monthly chart: %w", err)
	}
	return &chartSet{Daily: daily, Monthly: monthly}, nil
}

func initOpts() opts.Initialization {
	return opts.Initialization{Width: "100%", Height: "420px"}
}

// renderDaily draws actual vs forecast credits per day with the forecast band.
func renderDaily(res *pipeline.Result) ([]byte, error) {
	x := make([]string, len(res.Daily))
	actual := make([]opts.LineData, len(res.Daily))
	forecast := make([]opts.LineData, len(res.Daily))
	lower := make([]opts.LineData, len(res.Daily))
	upper := make([]opts.LineData, len(res.Daily))
	for i, d := range res.Daily {
		x[i] = d.Date.Format(dates.Layout)
		if d.Actual != nil {
			actual[i] = opts.LineData{Value: *d.Actual}
		} else {
			actual[i] = opts.LineData{Value: missing}
		}
		forecast[i] = opts.LineData{Value: d.Forecast}
		lower[i] = opts.LineData{Value: d.Lower}
		upper[i] = opts.LineData{Value: d.Upper}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Daily credits", Subtitle: "actual vs forecast"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "credits"}),
	)
	line.SetXAxis(x).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecast).
		AddSeries("Lower", lower).
		AddSeries("Upper", upper)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderMonthly draws grouped bars of actual and forecast credits per month.
func renderMonthly(res *pipeline.Result) ([]byte, error) {
	labels := make([]string, len(res.Monthly))
	actual := make([]opts.BarData, len(res.Monthly))
	forecast := make([]opts.BarData, len(res.Monthly))
	for i, m := range res.Monthly {
		labels[i] = m.Label
		actual[i] = opts.BarData{Value: m.ActualSum}
		forecast[i] = opts.BarData{Value: m.ForecastSum}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: "Monthly credits"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: -45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "credits"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecast)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
