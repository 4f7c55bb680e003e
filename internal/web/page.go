package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

type formValues struct {
	Username string
	Account  string
	Role     string
	Price    string
}

// costRow is one line of the monthly cost table, preformatted.
type costRow struct {
	Month           string
	CreditsActual   string
	CreditsForecast string
	CostActual      string
	CostForecast    string
}

type pageData struct {
	Form   formValues
	Error  string
	Report *pipeline.Report
	Charts *chartSet
	Rows   []costRow
}

func (s *Server) defaultForm() formValues {
	return formValues{
		Username: s.cfg.Defaults.Username,
		Account:  s.cfg.Defaults.Account,
		Role:     s.cfg.Defaults.Role,
		Price:    strconv.FormatFloat(s.cfg.DefaultPrice, 'f', 2, 64),
	}
}

func tableRows(monthly []model.MonthlyAggregate) []costRow {
	rows := make([]costRow, len(monthly))
	for i, m := range monthly {
		rows[i] = costRow{
			Month:           m.Label,
			CreditsActual:   formatNumber(m.ActualSum),
			CreditsForecast: formatNumber(m.ForecastSum),
			CostActual:      "$" + formatNumber(m.ActualCost),
			CostForecast:    "$" + formatNumber(m.ForecastCost),
		}
	}
	return rows
}

// formatNumber renders v with two decimals and thousands separators.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"horizon": func(r *pipeline.Report) string { return dates.MonthLabel(r.HorizonEnd) },
	"str":     func(b []byte) string { return string(b) },
}).Parse(pageHTML))

func (s *Server) renderPage(w http.ResponseWriter, code int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("rendering page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// footnote explains why the current month's actual cost trails its forecast.
const footnote = "* Actual cost covers metered days only, so the current month is partial."

var pageHTML = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Credit Usage Forecast</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 1100px; color: #222; }
form { display: grid; grid-template-columns: 10rem 18rem; gap: .5rem 1rem; margin-bottom: 1.5rem; }
.error { background: #fde8e8; border: 1px solid #e0a0a0; padding: .75rem; }
.notice { background: #e8f6ec; border: 1px solid #9fd1ae; padding: .75rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: .35rem .75rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
iframe { border: 0; width: 100%%; height: 460px; }
.foot { font-size: .85rem; color: #555; }
</style>
</head>
<body>
<h1>Credit Usage Forecast</h1>
<form method="post" action="/run">
  <label for="username">Username</label><input id="username" name="username" value="{{.Form.Username}}">
  <label for="password">Password</label><input id="password" name="password" type="password">
  <label for="account">Account</label><input id="account" name="account" value="{{.Form.Account}}">
  <label for="role">Role</label><input id="role" name="role" value="{{.Form.Role}}">
  <label for="price">Price per credit ($)</label><input id="price" name="price" type="number" min="0" step="0.01" value="{{.Form.Price}}">
  <span></span><button type="submit">Forecast</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Report}}
<p class="notice">Forecast ready: {{.HistoryDays}} days of history, projected {{.HorizonDays}} days through {{horizon .}}.</p>
{{end}}
{{with .Charts}}
<h2>Daily credits</h2>
<iframe title="Daily credits" srcdoc="{{str .Daily}}"></iframe>
<h2>Monthly credits</h2>
<iframe title="Monthly credits" srcdoc="{{str .Monthly}}"></iframe>
{{end}}
{{if .Rows}}
<h2>Monthly cost</h2>
<table>
<thead><tr><th>Month</th><th>Credits Actual</th><th>Credits Forecast</th><th>Cost Actual*</th><th>Cost Forecast</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Month}}</td><td>{{.CreditsActual}}</td><td>{{.CreditsForecast}}</td><td>{{.CostActual}}</td><td>{{.CostForecast}}</td></tr>
{{end}}</tbody>
</table>
<p class="foot">%s</p>
{{end}}
</body>
</html>
`, footnote)
