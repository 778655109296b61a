package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spoiler"

// Command outcomes.
const (
	ResultOK       = "ok"
	ResultDisabled = "disabled"
	ResultError    = "error"
)

// Metrics holds the editor collectors.
type Metrics struct {
	transactions *prometheus.CounterVec
	commands     *prometheus.CounterVec
	upcast       *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors that are
// already registered, e.g. by another editor on the same registry, are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of model transactions by outcome",
			},
			[]string{"outcome"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_executions_total",
				Help:      "Total number of command executions by result",
			},
			[]string{"command", "result"},
		),
		upcast: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upcast_elements_total",
				Help:      "Total number of markup elements seen by the upcast",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Duration of conversions by direction",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"direction"},
		),
	}

	var err error
	if m.transactions, err = register(reg, m.transactions); err != nil {
		return nil, err
	}
	if m.commands, err = register(reg, m.commands); err != nil {
		return nil, err
	}
	if m.upcast, err = register(reg, m.upcast); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// TransactionCommitted counts a committed transaction.
func (m *Metrics) TransactionCommitted() {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues("committed").Inc()
}

// TransactionAborted counts a rolled back transaction.
func (m *Metrics) TransactionAborted() {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues("aborted").Inc()
}

// CommandExecuted counts a command execution with one of the Result constants.
func (m *Metrics) CommandExecuted(name, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, result).Inc()
}

// Upcast records the element counts of one upcast.
func (m *Metrics) Upcast(converted, skipped int) {
	if m == nil {
		return
	}
	m.upcast.WithLabelValues("converted").Add(float64(converted))
	m.upcast.WithLabelValues("skipped").Add(float64(skipped))
}

// ObserveConversion records how long a conversion in direction took since start.
func (m *Metrics) ObserveConversion(direction string, start time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
}
