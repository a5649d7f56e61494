package journal

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/template"
	"time"
)

// BacktestRun mirrors the runs table.
type BacktestRun struct {
	RunID     string
	Created   time.Time
	Timeframe string
	Dataset   string

	// Instrument traded in this backtest
	Instrument string
	Strategy   string

	// Price data covered
	Start time.Time
	End   time.Time
	Bars  int

	// Results
	Trades int
	Wins   int
	Losses int

	// Derived / computed in Go
	WinRate         float64
	ReturnPct       float64
	AvgWinPct       float64
	AvgLossPct      float64
	ProfitFactor    float64
	MaxConsecWins   int
	MaxConsecLosses int
	MaxDDPct        float64
	Sharpe          float64

	// Direction of a position still open after the last bar, or FLAT.
	OpenPosition string

	OrgPath string

	Notes       []string
	NextActions []string
}

type orgView struct {
	*BacktestRun
	TradeLog []TradeRecord
}

var backtestOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"pf": func(x float64) string {
		if math.IsInf(x, 1) {
			return "inf"
		}
		return fmt.Sprintf("%.2f", x)
	},
}

var backtestOrg = template.Must(template.New("backtest").Funcs(backtestOrgFuncs).Parse(BacktestOrgTemplate))

// WriteOrg renders the run and its trades as an Org-mode report.
func (v *BacktestRun) WriteOrg(w io.Writer, trades []TradeRecord) error {
	return backtestOrg.Execute(w, orgView{BacktestRun: v, TradeLog: trades})
}

// WriteOrgFile writes the report to v.OrgPath.
func (v *BacktestRun) WriteOrgFile(trades []TradeRecord) error {
	if v.OrgPath == "" {
		return fmt.Errorf("journal: run %s has no org path", v.RunID)
	}
	f, err := os.Create(v.OrgPath)
	if err != nil {
		return err
	}
	if err := v.WriteOrg(f, trades); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const BacktestOrgTemplate = `
* BACKTEST: {{if .Strategy}}{{.Strategy}}{{else}}(strategy?){{end}} {{.Instrument}} {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:TIMEFRAME:   {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}}
:INSTRUMENT:  {{.Instrument}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:BARS:        {{.Bars}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDDPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:PROFIT_FAC:  {{pf .ProfitFactor}}
:OPEN_POS:    {{.OpenPosition}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .MaxDDPct}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRate)}}%*
- Average Win:      *{{printf "%.2f" .AvgWinPct}}%*
- Average Loss:     *{{printf "%.2f" .AvgLossPct}}%*
- Profit Factor:    *{{pf .ProfitFactor}}*
- Sharpe:           *{{printf "%.2f" .Sharpe}}*
- Max Consecutive:  *{{.MaxConsecWins}} wins / {{.MaxConsecLosses}} losses*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .TradeLog }}

** Trades
| Dir | Entry | Exit | PnL % | Reason | Regime |
|-----+-------+------+-------+--------+--------|
{{- range .TradeLog }}
| {{.Direction}} | {{printf "%.4f" .EntryPrice}} | {{printf "%.4f" .ExitPrice}} | {{printf "%.2f" (mul100 .PnLPct)}} | {{.Reason}} | {{.Regime}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}

** Notes / Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
