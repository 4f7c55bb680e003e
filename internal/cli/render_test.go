package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:    "Costs",
		Headers:  []string{"Month", "Cost"},
		Rows:     [][]string{{"Jan-2024", "$1.00"}, {"---"}, {"Total", "$10.00"}},
		Footnote: "* note",
	})
	for _, want := range []string{"Costs", "Month", "Jan-2024", "$10.00", "* note", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("empty table rendered output")
	}
}

func TestMonthlyTable(t *testing.T) {
	tbl := MonthlyTable([]model.MonthlyAggregate{
		{Label: "Jan-2024", ActualSum: 300, ForecastSum: 310, ActualCost: 450, ForecastCost: 465},
	})
	want := []string{"Month", "Credits Actual", "Credits Forecast", "Cost Actual*", "Cost Forecast"}
	for i, h := range want {
		if tbl.Headers[i] != h {
			t.Fatalf("header %d = %q, want %q", i, tbl.Headers[i], h)
		}
	}
	row := tbl.Rows[0]
	if row[0] != "Jan-2024" || row[1] != "300.0" || row[3] != "$450.00" || row[4] != "$465.00" {
		t.Fatalf("row = %v", row)
	}
	if tbl.Footnote == "" {
		t.Fatal("missing actual cost footnote")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7, 14}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("RenderSparkline(nil) = %q, want empty", got)
	}
}

func TestRenderReport(t *testing.T) {
	a := 3.0
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rep := &pipeline.Report{
		RunID:       "abc",
		HistoryDays: 1,
		HorizonDays: 2,
		HorizonEnd:  jan.AddDate(0, 0, 2),
		Price:       2,
		TotalCost:   18,
		Result: &pipeline.Result{
			Daily: []model.MergedRecord{
				{Date: jan, Actual: &a, Forecast: 3},
				{Date: jan.AddDate(0, 0, 1), Forecast: 3},
				{Date: jan.AddDate(0, 0, 2), Forecast: 3},
			},
			Monthly: []model.MonthlyAggregate{
				{Month: jan, Label: "Jan-2024", ActualSum: 3, ForecastSum: 9, ActualCost: 6, ForecastCost: 18},
			},
		},
	}
	out := RenderReport(rep, 40)
	for _, want := range []string{"Credit Usage Forecast", "2024-01-03", "$2.00/credit", "$18.00", "Jan-2024", "Cost Actual*"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderDailyChart_Empty(t *testing.T) {
	if out := RenderDailyChart(nil, 40, 10); !strings.Contains(out, "No data") {
		t.Fatalf("empty chart = %q", out)
	}
}

func TestSpinnerModel(t *testing.T) {
	canceled := false
	m := newSpinnerModel("working", func() (int, error) { return 0, nil }, func() { canceled = true })

	next, cmd := m.Update(doneMsg[int]{value: 7})
	fm := next.(spinnerModel[int])
	if !fm.done || fm.result != 7 || fm.err != nil {
		t.Fatalf("after done: %+v", fm)
	}
	if cmd == nil {
		t.Fatal("done did not quit")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	fm = next.(spinnerModel[int])
	if !errors.Is(fm.err, ErrInterrupted) || !canceled {
		t.Fatalf("ctrl+c: err=%v canceled=%v", fm.err, canceled)
	}
}
