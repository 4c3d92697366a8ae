package rdke

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a run did. Each DKE registers its own collectors in its own registry.
type Metrics struct {
	Registry *prometheus.Registry
	Steps    prometheus.Counter
	Rows     prometheus.Counter
	Flushes  prometheus.Counter
	Warnings *prometheus.CounterVec
	Regime   *prometheus.CounterVec
	Altitude prometheus.Gauge
	SimTime  prometheus.Gauge
}

// NewMetrics returns the run metrics registered in a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dke",
			Name:      "steps_total",
			Help:      "Integration steps performed.",
		}),
		Rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dke",
			Name:      "archive_rows_total",
			Help:      "States appended to the archive.",
		}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dke",
			Name:      "archive_flushes_total",
			Help:      "Archive flushes.",
		}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dke",
			Name:      "warnings_total",
			Help:      "Recovered model warnings by kind.",
		}, []string{"kind"}),
		Regime: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dke",
			Name:      "flow_regime_steps_total",
			Help:      "Steps started in each flow regime.",
		}, []string{"regime"}),
		Altitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dke",
			Name:      "altitude_meters",
			Help:      "Altitude of the last step above the mean radius.",
		}),
		SimTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dke",
			Name:      "sim_time_seconds",
			Help:      "Simulation time of the last step.",
		}),
	}
	m.Registry.MustRegister(m.Steps, m.Rows, m.Flushes, m.Warnings, m.Regime, m.Altitude, m.SimTime)
	return m
}

// WriteTextfile writes the metrics in the Prometheus text format, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
