// Package metrics counts backtest activity with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns a private registry so parallel runs and tests never clash
// with the global default registry.
type Recorder struct {
	reg *prometheus.Registry

	RunsTotal    *prometheus.CounterVec
	BarsTotal    *prometheus.CounterVec
	ActionsTotal *prometheus.CounterVec
	TradesTotal  *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	ReturnPct    *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "adaptive_runs_total", Help: "Backtest runs by outcome"},
			[]string{"symbol", "status"},
		),
		BarsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "adaptive_bars_total", Help: "Bars processed by the strategy loop"},
			[]string{"symbol"},
		),
		ActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "adaptive_actions_total", Help: "Loop actions taken, WAIT excluded"},
			[]string{"symbol", "action"},
		),
		TradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "adaptive_trades_total", Help: "Closed trades by exit reason"},
			[]string{"symbol", "reason"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adaptive_run_duration_seconds",
				Help:    "Wall time of a backtest run",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"symbol"},
		),
		ReturnPct: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "adaptive_return_pct", Help: "Total return of the latest run, in percent"},
			[]string{"symbol"},
		),
	}
	r.reg.MustRegister(r.RunsTotal, r.BarsTotal, r.ActionsTotal, r.TradesTotal, r.RunDuration, r.ReturnPct)
	return r
}

// Registry exposes the collectors, e.g. for promhttp or testutil.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

func (r *Recorder) ObserveRun(symbol, status string, d time.Duration) {
	r.RunsTotal.WithLabelValues(symbol, status).Inc()
	r.RunDuration.WithLabelValues(symbol).Observe(d.Seconds())
}

func (r *Recorder) AddBars(symbol string, n int) {
	r.BarsTotal.WithLabelValues(symbol).Add(float64(n))
}

func (r *Recorder) CountAction(symbol, action string) {
	if action == "WAIT" {
		return
	}
	r.ActionsTotal.WithLabelValues(symbol, action).Inc()
}

func (r *Recorder) CountTrade(symbol, reason string) {
	r.TradesTotal.WithLabelValues(symbol, reason).Inc()
}

func (r *Recorder) SetReturn(symbol string, pct float64) {
	r.ReturnPct.WithLabelValues(symbol).Set(pct)
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
