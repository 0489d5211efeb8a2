// Package metrics provides Prometheus metrics for the HVAC console.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the console.
// A nil *Registry is valid and records nothing.
type Registry struct {
	gatherer prometheus.Gatherer

	// Transaction metrics
	ConnectionsTotal    prometheus.Counter
	ConnectionErrors    prometheus.Counter
	ConnectionLatency   prometheus.Histogram
	TransactionsTotal   *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
	RegistersRead       prometheus.Counter
	RegistersWritten    prometheus.Counter

	// Monitor metrics
	PollsTotal     *prometheus.CounterVec
	PollsSkipped   prometheus.Counter // breaker open or monitor disabled mid-poll
	MonitorEnabled prometheus.Gauge
	MonitorEntries prometheus.Gauge
	BreakerState   prometheus.Gauge

	// Console metrics
	CommandsTotal *prometheus.CounterVec

	// Journal metrics
	JournalEntries prometheus.Counter
	JournalDropped prometheus.Counter
}

// NewRegistry creates the metrics and registers them with reg. When reg is
// nil a private registry is used so that repeated construction in tests does
// not collide on the default registerer.
func NewRegistry(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(collectors.NewGoCollector())

	f := promauto.With(reg)
	r := &Registry{
		gatherer: reg,

		ConnectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "connections_total",
			Help:      "Total number of Modbus connection attempts",
		}),
		ConnectionErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "connection_errors_total",
			Help:      "Total number of failed Modbus connection attempts",
		}),
		ConnectionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "connection_latency_seconds",
			Help:      "Modbus connection establishment latency",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		TransactionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "transactions_total",
			Help:      "Total number of Modbus transactions",
		}, []string{"operation", "status"}),
		TransactionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "transaction_duration_seconds",
			Help:      "Duration of a whole connect, operate, close transaction",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		RegistersRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "registers_read_total",
			Help:      "Total number of registers read from the device",
		}),
		RegistersWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "modbus",
			Name:      "registers_written_total",
			Help:      "Total number of registers written to the device",
		}),

		PollsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "monitor",
			Name:      "polls_total",
			Help:      "Total number of monitor polls",
		}, []string{"status"}),
		PollsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "monitor",
			Name:      "polls_skipped_total",
			Help:      "Monitor ticks that produced no line",
		}),
		MonitorEnabled: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "hvac",
			Subsystem: "monitor",
			Name:      "enabled",
			Help:      "1 when the live monitor is enabled",
		}),
		MonitorEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "hvac",
			Subsystem: "monitor",
			Name:      "entries",
			Help:      "Number of registers in the monitor set",
		}),
		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "hvac",
			Subsystem: "monitor",
			Name:      "breaker_state",
			Help:      "Monitor circuit breaker state (0 closed, 1 half-open, 2 open)",
		}),

		CommandsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "console",
			Name:      "commands_total",
			Help:      "Total number of dispatched console commands",
		}, []string{"command", "status"}),

		JournalEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "journal",
			Name:      "entries_total",
			Help:      "Total number of entries written to the journal",
		}),
		JournalDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "hvac",
			Subsystem: "journal",
			Name:      "dropped_total",
			Help:      "Journal entries dropped because the queue was full",
		}),
	}

	return r
}

// Handler returns the HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return nil
	}
	return r.gatherer
}

// RecordConnection records a connection attempt.
func (r *Registry) RecordConnection(success bool, latency float64) {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	if !success {
		r.ConnectionErrors.Inc()
	}
	r.ConnectionLatency.Observe(latency)
}

// RecordTransaction records a finished transaction.
func (r *Registry) RecordTransaction(operation string, success bool, duration float64, registers int) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	r.TransactionsTotal.WithLabelValues(operation, status).Inc()
	r.TransactionDuration.WithLabelValues(operation).Observe(duration)
	if !success {
		return
	}
	if operation == "write" {
		r.RegistersWritten.Add(float64(registers))
	} else {
		r.RegistersRead.Add(float64(registers))
	}
}

// RecordPoll records the outcome of one monitor poll.
func (r *Registry) RecordPoll(success bool) {
	if r == nil {
		return
	}
	if success {
		r.PollsTotal.WithLabelValues("success").Inc()
	} else {
		r.PollsTotal.WithLabelValues("error").Inc()
	}
}

// RecordPollSkipped records a tick that produced no output.
func (r *Registry) RecordPollSkipped() {
	if r == nil {
		return
	}
	r.PollsSkipped.Inc()
}

// UpdateMonitor updates the monitor state gauges.
func (r *Registry) UpdateMonitor(enabled bool, entries int) {
	if r == nil {
		return
	}
	if enabled {
		r.MonitorEnabled.Set(1)
	} else {
		r.MonitorEnabled.Set(0)
	}
	r.MonitorEntries.Set(float64(entries))
}

// UpdateBreakerState updates the breaker gauge.
func (r *Registry) UpdateBreakerState(state int) {
	if r == nil {
		return
	}
	r.BreakerState.Set(float64(state))
}

// RecordCommand records a dispatched console command.
func (r *Registry) RecordCommand(command string, success bool) {
	if r == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
}

// RecordJournal records a journal write or a dropped entry.
func (r *Registry) RecordJournal(dropped bool) {
	if r == nil {
		return
	}
	if dropped {
		r.JournalDropped.Inc()
	} else {
		r.JournalEntries.Inc()
	}
}
