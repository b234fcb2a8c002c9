package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"epigrid/internal/domain/epidemic"
)

// Metrics exports tick KPIs on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	runsStarted  prometheus.Counter
	ticks        prometheus.Counter
	stepFailures prometheus.Counter
	transitions  *prometheus.CounterVec
	agents       *prometheus.GaugeVec
	r0           prometheus.Gauge
	totalDeaths  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "epigrid_runs_started_total",
			Help: "Total number of simulation runs started",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "epigrid_ticks_total",
			Help: "Total number of ticks simulated across runs",
		}),
		stepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "epigrid_step_failures_total",
			Help: "Total number of failed step requests",
		}),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "epigrid_transitions_total",
				Help: "Status transitions applied, by kind",
			},
			[]string{"kind"},
		),
		agents: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "epigrid_agents",
				Help: "Agents per status after the most recent tick",
			},
			[]string{"status"},
		),
		r0: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "epigrid_reproduction_number",
			Help: "Reproduction number after the most recent tick",
		}),
		totalDeaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "epigrid_total_deaths",
			Help: "Death counter after the most recent tick",
		}),
	}
	m.registry.MustRegister(m.runsStarted, m.ticks, m.stepFailures, m.transitions, m.agents, m.r0, m.totalDeaths)
	return m
}

func (m *Metrics) RecordRunStarted() {
	m.runsStarted.Inc()
}

func (m *Metrics) RecordTick(report epidemic.TickReport) {
	m.ticks.Inc()
	m.transitions.WithLabelValues("infection").Add(float64(report.NewInfections))
	m.transitions.WithLabelValues("recovery").Add(float64(report.NewRecoveries))
	m.transitions.WithLabelValues("death").Add(float64(report.NewDeaths))
	m.transitions.WithLabelValues("removal").Add(float64(report.Removed))
	for _, s := range epidemic.Statuses {
		m.agents.WithLabelValues(string(s)).Set(float64(report.Counts.Of(s)))
	}
	m.r0.Set(report.ReproductionNumber)
	m.totalDeaths.Set(float64(report.TotalDeaths))
}

func (m *Metrics) RecordStepFailure() {
	m.stepFailures.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
